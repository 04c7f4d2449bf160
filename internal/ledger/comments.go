package ledger

import (
	"context"

	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"
)

// SetComment records the comment on a student, replacing any previous one.
// The Date field is stamped on every call. It reports whether the comment
// is new.
func (s *Service) SetComment(ctx context.Context, class, student, text, author string) (bool, error) {
	var err error
	if class, err = required("comment", models.FieldClassName, class); err != nil {
		return false, err
	}
	if student, err = required("comment", models.FieldStudentName, student); err != nil {
		return false, err
	}
	rec := table.Record{
		models.FieldClassName:   class,
		models.FieldStudentName: student,
		models.FieldComment:     text,
		models.FieldAuthor:      author,
	}
	return s.Upsert(ctx, models.TableComments,
		[]string{models.FieldClassName, models.FieldStudentName}, rec, models.FieldDate, author)
}

// CommentFor returns the comment on a student, if any.
func (s *Service) CommentFor(ctx context.Context, class, student string) (models.Comment, bool) {
	comments, err := s.Comments(ctx)
	if err != nil {
		return models.Comment{}, false
	}
	for _, c := range comments {
		if textutils.Equal(c.ClassName, class) && textutils.Equal(c.StudentName, student) {
			return c, true
		}
	}
	return models.Comment{}, false
}

// Comments returns every stored comment.
func (s *Service) Comments(ctx context.Context) ([]models.Comment, error) {
	return table.Decode[models.Comment](s.List(ctx, models.TableComments))
}
