package usecase

import (
	"strings"

	"code-campus/services/notification/internal/entity"
)

type messageTemplate struct {
	title   string
	message string
}

// Per-type message templates. Placeholders use {name} syntax and are filled
// from the produce call's data map. The rendered string is what gets stored;
// editing a template here never rewrites already-delivered notifications.
var messageTemplates = map[string]messageTemplate{
	entity.TypeUserRegistration: {
		title:   "Welcome to CodeCampus",
		message: "Hi {username}, your account has been created. Browse the course catalog to get started.",
	},
	entity.TypeCourseEnrollment: {
		title:   "Enrollment confirmed",
		message: "{studentName}, you are now enrolled in {courseName}.",
	},
	entity.TypeCourseAssignment: {
		title:   "New assignment",
		message: "A new assignment \"{assignmentTitle}\" was published in {courseName}.",
	},
	entity.TypeAssignmentSubmission: {
		title:   "New submission",
		message: "{studentName} submitted \"{assignmentTitle}\" in {courseName}.",
	},
	entity.TypeGradeAssigned: {
		title:   "Assignment graded",
		message: "Your submission for \"{assignmentTitle}\" in {courseName} was graded: {grade}.",
	},
	entity.TypeSystemAnnouncement: {
		title:   "Announcement",
		message: "{announcement}",
	},
}

// Recipient-perspective variants used by fan-out: the same event reads
// differently for the second recipient (e.g. the course's teacher).
var teacherEnrollmentTemplate = messageTemplate{
	title:   "New student enrolled",
	message: "{studentName} enrolled in your course {courseName}.",
}

var genericTemplate = messageTemplate{
	title:   "Notification",
	message: "You have a new notification.",
}

// renderTemplate resolves the template for a type and substitutes
// placeholders. Unknown types fall back to a generic message rather than
// failing, so a producer never blocks the action that triggered it.
func renderTemplate(nType string, data map[string]string) (title, message string) {
	tpl, ok := messageTemplates[nType]
	if !ok {
		tpl = genericTemplate
	}
	return tpl.title, substitute(tpl.message, data)
}

func substitute(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
