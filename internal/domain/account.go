package domain

// AccountRole enumerates the roles a signed-in account may hold.
type AccountRole string

const (
	AccountRoleStudent     AccountRole = "student"
	AccountRoleStaff       AccountRole = "staff"
	AccountRoleAdmin       AccountRole = "admin"
	AccountRoleITAdmin     AccountRole = "it-admin"
	AccountRoleHostelAdmin AccountRole = "hostel-admin"
)

// Account is a demo identity used by the session collaborator.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AccountRole
	Department   string
	StudentID    string
	ContactInfo  string
	Phone        string
}
