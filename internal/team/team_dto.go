package team

type AssignManagerRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	ManagerID string `json:"manager_id" binding:"required,uuid"`
}
