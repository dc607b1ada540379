package api

import (
	"errors"
	"strings"
	"time"

	"example.com/liftlog/internal/domain"
)

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	PasswordAgain string `json:"password_again"`
	DefaultPublic bool   `json:"default_public"`
}

// RegisterResponse describes the response body for register.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// LogExerciseRequest is the payload for POST /v1/exercises.
type LogExerciseRequest struct {
	TypeID  string  `json:"type_id"`
	ClassID string  `json:"class_id"`
	Weight  float64 `json:"weight"`
	Date    string  `json:"date"`
	Note    string  `json:"note"`
	Public  bool    `json:"public"`
}

// Validate ensures request correctness.
func (r LogExerciseRequest) Validate() error {
	if strings.TrimSpace(r.TypeID) == "" {
		return errors.New("type_id is required")
	}
	if strings.TrimSpace(r.ClassID) == "" {
		return errors.New("class_id is required")
	}
	if strings.TrimSpace(r.Date) == "" {
		return errors.New("date is required")
	}
	return nil
}

// EditExerciseRequest is the payload for PUT /v1/exercises/{id}.
type EditExerciseRequest struct {
	TypeID string  `json:"type_id"`
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

// AddCommentRequest is the payload for POST /v1/exercises/{id}/comments.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddTypeRequest is the payload for POST /v1/types.
type AddTypeRequest struct {
	Name string `json:"name"`
}

// ExerciseView exposes an exercise owned by the caller.
type ExerciseView struct {
	ExerciseID   string  `json:"exercise_id"`
	UserID       string  `json:"user_id"`
	TypeID       string  `json:"type_id"`
	ClassID      string  `json:"class_id,omitempty"`
	Weight       float64 `json:"weight"`
	Date         string  `json:"date"`
	Public       bool    `json:"public"`
	Note         string  `json:"note,omitempty"`
	CommentCount int     `json:"comment_count"`
}

// ExerciseEntryView is an exercise joined with its owner and reference rows.
type ExerciseEntryView struct {
	ExerciseView
	Username   string `json:"username"`
	TypeName   string `json:"exercise_type"`
	ClassLabel string `json:"class_label,omitempty"`
}

// ListExercisesResponse packages list results.
type ListExercisesResponse struct {
	Items []ExerciseEntryView `json:"items"`
}

// CommentView exposes a single comment.
type CommentView struct {
	CommentID  string    `json:"comment_id"`
	ExerciseID string    `json:"exercise_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListCommentsResponse packages comment list results.
type ListCommentsResponse struct {
	Items []CommentView `json:"items"`
}

// TypeView exposes an exercise type.
type TypeView struct {
	TypeID string `json:"type_id"`
	Name   string `json:"name"`
}

// ListTypesResponse packages type list results.
type ListTypesResponse struct {
	Items []TypeView `json:"items"`
}

// ClassView exposes a rep-scheme class.
type ClassView struct {
	ClassID string `json:"class_id"`
	Label   string `json:"label"`
	Reps    int    `json:"reps"`
}

// ListClassesResponse packages class list results.
type ListClassesResponse struct {
	Items []ClassView `json:"items"`
}

// GroupStatView is one (type, class) aggregate row.
type GroupStatView struct {
	TypeName   string  `json:"exercise_type"`
	ClassLabel string  `json:"class_label,omitempty"`
	MaxWeight  float64 `json:"max_weight"`
	LiftCount  int     `json:"lift_count"`
	LastDate   string  `json:"last_date"`
}

// RecordView exposes a PR record.
type RecordView struct {
	RecordID string  `json:"record_id"`
	TypeID   string  `json:"type_id"`
	Epley    int     `json:"e1rm_epley"`
	Lombardi int     `json:"e1rm_lombardi"`
	Brzycki  int     `json:"e1rm_brzycki"`
	Weight   float64 `json:"source_weight"`
	Date     string  `json:"date"`
}

// StatsResponse merges the grouped aggregates with the latest PR per type.
type StatsResponse struct {
	Groups  []GroupStatView `json:"groups"`
	Records []RecordView    `json:"records"`
}

// ProfileView is the public account summary. LastExercise is null when the
// user has no exercises yet.
type ProfileView struct {
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	Joined        string  `json:"joined"`
	ExerciseCount int     `json:"exercise_count"`
	CommentCount  int     `json:"comment_count"`
	LastExercise  *string `json:"last_exercise"`
}

func toExerciseView(ex domain.Exercise) ExerciseView {
	view := ExerciseView{
		ExerciseID:   ex.ID,
		UserID:       ex.UserID,
		TypeID:       ex.TypeID,
		Weight:       ex.Weight,
		Date:         ex.Date.Format(dateFormat),
		Public:       ex.Public,
		Note:         ex.Note,
		CommentCount: ex.CommentCount,
	}
	if ex.ClassID != nil {
		view.ClassID = *ex.ClassID
	}
	return view
}

func toEntryViews(entries []domain.ExerciseEntry) []ExerciseEntryView {
	views := make([]ExerciseEntryView, 0, len(entries))
	for _, entry := range entries {
		view := ExerciseEntryView{
			ExerciseView: toExerciseView(entry.Exercise),
			Username:     entry.Username,
			TypeName:     entry.TypeName,
		}
		if entry.ClassLabel != nil {
			view.ClassLabel = *entry.ClassLabel
		}
		views = append(views, view)
	}
	return views
}

func toCommentViews(entries []domain.CommentEntry) []CommentView {
	views := make([]CommentView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, CommentView{
			CommentID:  entry.ID,
			ExerciseID: entry.ExerciseID,
			UserID:     entry.UserID,
			Username:   entry.Username,
			Text:       entry.Text,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return views
}

func toTypeViews(types []domain.ExerciseType) []TypeView {
	views := make([]TypeView, 0, len(types))
	for _, et := range types {
		views = append(views, TypeView{TypeID: et.ID, Name: et.Name})
	}
	return views
}

func toClassViews(classes []domain.ExerciseClass) []ClassView {
	views := make([]ClassView, 0, len(classes))
	for _, c := range classes {
		views = append(views, ClassView{ClassID: c.ID, Label: c.Label, Reps: c.Reps})
	}
	return views
}

func toStatsView(report domain.StatsReport) StatsResponse {
	resp := StatsResponse{
		Groups:  make([]GroupStatView, 0, len(report.Groups)),
		Records: make([]RecordView, 0, len(report.Records)),
	}
	for _, g := range report.Groups {
		view := GroupStatView{
			TypeName:  g.TypeName,
			MaxWeight: g.MaxWeight,
			LiftCount: g.LiftCount,
			LastDate:  g.LastDate.Format(dateFormat),
		}
		if g.ClassLabel != nil {
			view.ClassLabel = *g.ClassLabel
		}
		resp.Groups = append(resp.Groups, view)
	}
	for _, rec := range report.Records {
		resp.Records = append(resp.Records, RecordView{
			RecordID: rec.ID,
			TypeID:   rec.TypeID,
			Epley:    rec.Epley,
			Lombardi: rec.Lombardi,
			Brzycki:  rec.Brzycki,
			Weight:   rec.Weight,
			Date:     rec.Date.Format(dateFormat),
		})
	}
	return resp
}

func toProfileView(p domain.Profile) ProfileView {
	view := ProfileView{
		UserID:        p.UserID,
		Username:      p.Username,
		Joined:        p.CreatedAt.Format(dateFormat),
		ExerciseCount: p.ExerciseCount,
		CommentCount:  p.CommentCount,
	}
	if p.LastExercise != nil {
		formatted := p.LastExercise.Format(dateFormat)
		view.LastExercise = &formatted
	}
	return view
}
