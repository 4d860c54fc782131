package leavetype

type LeaveTypeResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ColorCode          string `json:"color_code,omitempty"`
	RequiresAttachment bool   `json:"requires_attachment"`
}

func MapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 lt.ID.String(),
		Name:               lt.Name,
		ColorCode:          lt.ColorCode,
		RequiresAttachment: lt.RequiresAttachment,
	}
}
