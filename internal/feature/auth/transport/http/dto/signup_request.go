// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq は /signup のリクエストボディです。
// 空欄の判定は usecase で行い、「Please fill out all fields.」を返します。
type SignupReq struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

// UserRes は /users の1要素です。パスワードは含めません。
type UserRes struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
