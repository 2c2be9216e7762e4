// ABOUTME: Closed set of supported report kinds.
// ABOUTME: Maps each kind to its instructor API endpoint and payload shape.

package report

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedReport indicates a report kind outside the closed set. It is
// raised before any network call is made.
var ErrUnsupportedReport = errors.New("unsupported report")

// Kind identifies one of the report types the LMS instructor API can
// generate. The set is closed: anything else fails with ErrUnsupportedReport.
type Kind string

const (
	StudentsProfile      Kind = "get_students_profile"
	StudentsWhoMayEnroll Kind = "get_students_who_may_enroll"
	StudentAnonymizedIDs Kind = "get_student_anonymized_ids"
	CalculateGrades      Kind = "calculate_grades"
	ProblemGradeReport   Kind = "problem_grade_report"
	ORADataReport        Kind = "ora_data_report"
	ORASummaryReport     Kind = "ora_summary_report"
	ProblemResponses     Kind = "get_problem_responses"

	// NAU custom reports, served by the nau-openedx-extensions plugin
	// rather than the instructor API.
	CourseCertificates    Kind = "export_course_certificates"
	CourseCertificatePDFs Kind = "export_course_certificates_pdfs"
)

// instructorEndpoints maps kinds to their path under
// /courses/{course_id}/instructor/api/. The two certificate kinds are absent
// because they live under the extension root.
var instructorEndpoints = map[Kind]string{
	StudentsProfile:      "get_students_features/csv",
	StudentsWhoMayEnroll: "get_students_who_may_enroll",
	StudentAnonymizedIDs: "get_anon_ids",
	CalculateGrades:      "calculate_grades_csv",
	ProblemGradeReport:   "problem_grade_report",
	ORADataReport:        "export_ora2_data",
	ORASummaryReport:     "export_ora2_summary",
	ProblemResponses:     "get_problem_responses",
}

var certificateFormats = map[Kind]string{
	CourseCertificates:    "csv",
	CourseCertificatePDFs: "pdf",
}

// ParseKind validates a raw report name against the closed set.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if _, ok := instructorEndpoints[k]; ok {
		return k, nil
	}
	if _, ok := certificateFormats[k]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedReport, raw)
}

// Kinds returns the full closed set in stable order, for help text and
// request validation messages.
func Kinds() []string {
	names := make([]string, 0, len(instructorEndpoints)+len(certificateFormats))
	for k := range instructorEndpoints {
		names = append(names, string(k))
	}
	for k := range certificateFormats {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}
