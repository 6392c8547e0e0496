// Package api holds the dashboard wire types. The format is a bare JSON
// array consumed by the embedded dashboard page, not a versioned protocol.
package api

import "github.com/g960059/cch/internal/model"

type SessionResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Pwd       string `json:"pwd"`
	CreatedAt string `json:"created_at"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func SessionFromModel(session model.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		Title:     session.Title,
		Pwd:       session.Pwd,
		CreatedAt: session.CreatedAtString(),
	}
}
