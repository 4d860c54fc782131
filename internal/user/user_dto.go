package user

type DepartmentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ProfileResponse struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employee_code"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	Department   *DepartmentInfo `json:"department,omitempty"`
	Position     string          `json:"position,omitempty"`
	Manager      *UserSummary    `json:"manager,omitempty"`
	HireDate     *string         `json:"hire_date,omitempty"`
	IsManager    bool            `json:"is_manager"`
}

type TeamListResponse struct {
	TeamMembers []UserSummary `json:"team_members"`
}
