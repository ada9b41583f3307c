// Package api はフィーチャー間で共通のレスポンス型を定義します。
package api

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は本文を持たない成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}
