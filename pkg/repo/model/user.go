package model

type UserData struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	ID          string `json:"id"`
	OrgID       string `json:"org_id,omitempty"`
	Avatar      string `json:"avatar"`
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type UserInfo struct {
	Status string    `json:"status"`
	Msg    string    `json:"msg"`
	Data   *UserData `json:"data"`
}
