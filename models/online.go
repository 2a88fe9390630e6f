package models

import "time"

// OnlineMember 在线会员
type OnlineMember struct {
	TokenID       string    `json:"token_id"`
	MemberName    string    `json:"member_name"`
	VisitName     string    `json:"visit_name"`
	IPAddr        string    `json:"ipaddr"`
	LoginLocation string    `json:"login_location"`
	Browser       string    `json:"browser"`
	OS            string    `json:"os"`
	LoginTime     time.Time `json:"login_time"`
}

// OnlineQuery 在线会员查询
type OnlineQuery struct {
	MemberName string `form:"member_name"`
	IPAddr     string `form:"ipaddr"`
	PageQuery
}
