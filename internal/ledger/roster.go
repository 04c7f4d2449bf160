package ledger

import (
	"context"
	"sort"
	"strings"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"
)

// AddStudents enrols names in class. Memberships are appended as given;
// repeats are tolerated and folded away by Students.
func (s *Service) AddStudents(ctx context.Context, class string, names []string, user string) (int, error) {
	class = strings.TrimSpace(class)
	if class == "" {
		return 0, ledgererror.Invalid("class", models.FieldClassName, class, "must not be empty")
	}
	schema := models.MustSchema(models.TableClasses)
	current, err := s.load(ctx, schema)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		current.Append(table.Record{models.FieldClassName: class, models.FieldStudentName: n})
		added++
	}
	if added == 0 {
		return 0, ledgererror.Invalid("class", models.FieldStudentName, "", "at least one student name is required")
	}
	if err := s.store.WriteTable(ctx, current); err != nil {
		return 0, err
	}
	s.journal(ctx, user, "enrol", models.TableClasses, class+": "+strings.Join(names, ", "))
	return added, nil
}

// roster is the Classes table with repeated memberships dropped.
func (s *Service) roster(ctx context.Context) *table.Table {
	return table.Dedupe(s.List(ctx, models.TableClasses), models.FieldClassName, models.FieldStudentName)
}

// Classes lists the distinct class names, sorted.
func (s *Service) Classes(ctx context.Context) []string {
	return distinct(s.roster(ctx).Column(models.FieldClassName))
}

// Students lists the distinct students of class, sorted. The class name is
// matched in normalised form.
func (s *Service) Students(ctx context.Context, class string) []string {
	t := s.roster(ctx)
	var names []string
	for _, r := range t.Rows {
		if textutils.Equal(r[models.FieldClassName], class) {
			names = append(names, r[models.FieldStudentName])
		}
	}
	return distinct(names)
}

// IsEnrolled reports whether student belongs to class.
func (s *Service) IsEnrolled(ctx context.Context, class, student string) bool {
	return s.roster(ctx).IndexOf(table.Record{models.FieldClassName: class, models.FieldStudentName: student}, textutils.Equal) >= 0
}

// RenameStudent renames every membership of from in class, folds the
// repeats this leaves and moves the student's comment along.
func (s *Service) RenameStudent(ctx context.Context, class, from, to, user string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ledgererror.Invalid("class", models.FieldStudentName, to, "must not be empty")
	}
	classes, err := s.load(ctx, models.MustSchema(models.TableClasses))
	if err != nil {
		return err
	}
	member := table.Record{models.FieldClassName: class, models.FieldStudentName: from}
	if classes.IndexOf(member, textutils.Equal) < 0 {
		return ledgererror.NotFound("student", class+"/"+from)
	}
	if !textutils.Equal(from, to) &&
		classes.IndexOf(table.Record{models.FieldClassName: class, models.FieldStudentName: to}, textutils.Equal) >= 0 {
		return ledgererror.AlreadyExists("student", class+"/"+to)
	}
	for i, r := range classes.Rows {
		if textutils.Equal(r[models.FieldClassName], class) && textutils.Equal(r[models.FieldStudentName], from) {
			classes.Set(i, models.FieldStudentName, to)
		}
	}
	table.Dedupe(classes, models.FieldClassName, models.FieldStudentName)
	if err := s.store.WriteTable(ctx, classes); err != nil {
		return err
	}

	comments, err := s.load(ctx, models.MustSchema(models.TableComments))
	if err != nil {
		return err
	}
	if j := comments.IndexOf(table.Record{models.FieldClassName: class, models.FieldStudentName: from}, textutils.Equal); j >= 0 {
		comments.Set(j, models.FieldStudentName, to)
		if err := s.store.WriteTable(ctx, comments); err != nil {
			return err
		}
	}
	s.journal(ctx, user, "rename", models.TableClasses, class+": "+from+" -> "+to)
	return nil
}

// AddCourse adds course to class unless it is already listed.
func (s *Service) AddCourse(ctx context.Context, class, course, user string) error {
	class, course = strings.TrimSpace(class), strings.TrimSpace(course)
	if class == "" {
		return ledgererror.Invalid("course", models.FieldClassName, class, "must not be empty")
	}
	if course == "" {
		return ledgererror.Invalid("course", models.FieldCourseName, course, "must not be empty")
	}
	schema := models.MustSchema(models.TableCourses)
	current, err := s.load(ctx, schema)
	if err != nil {
		return err
	}
	rec := table.Record{models.FieldClassName: class, models.FieldCourseName: course}
	if current.IndexOf(rec, textutils.Equal) >= 0 {
		return ledgererror.AlreadyExists("course", class+"/"+course)
	}
	current.Append(rec)
	if err := s.store.WriteTable(ctx, current); err != nil {
		return err
	}
	s.journal(ctx, user, "add", models.TableCourses, class+"/"+course)
	return nil
}

// CoursesFor lists the courses of class, sorted.
func (s *Service) CoursesFor(ctx context.Context, class string) []string {
	t := s.List(ctx, models.TableCourses)
	var names []string
	for _, r := range t.Rows {
		if textutils.Equal(r[models.FieldClassName], class) {
			names = append(names, r[models.FieldCourseName])
		}
	}
	return distinct(names)
}

// distinct sorts values and drops blanks and normalised repeats.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		folded := textutils.Normalize(v)
		if v == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
