package user

// Roles is the fixed set a user may be assigned, in display order.
// Matching against it is case-insensitive.
var Roles = []string{
	"Developer",
	"Manager",
	"Designer",
	"QA Engineer",
	"DevOps Engineer",
	"Product Manager",
	"Architect",
	"Team Lead",
}
