package models

import (
	"time"

	"gorm.io/gorm"
)

// ResponseTypeTag classifies one expected response against the type
// catalogs: ResponseType is the category (exception/risk/desire/deep-dive)
// and ResponseIndex the entry within that catalog.
type ResponseTypeTag struct {
	ResponseType  int `json:"responseType"`
	ResponseIndex int `json:"responseIndex"`
}

// ExpectedResponse is one anticipated answer to a question step.
type ExpectedResponse struct {
	Text             string            `json:"text"`
	ResponseTypeList []ResponseTypeTag `json:"responseTypeList,omitempty"`
}

// QuestionStep is one prompt in a question set's flow.
type QuestionStep struct {
	Text              string             `json:"text"`
	ExpectedResponses []ExpectedResponse `json:"expectedResponses"`
}

// QuestionSet is a scripted consultation: an ordered flow of prompts with
// their expected-response classifications. The flow is stored as a JSON
// column; steps have no identity outside their set.
type QuestionSet struct {
	QuestionsID string         `gorm:"primaryKey;size:50" json:"questionsId"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Version     int            `gorm:"not null;default:1" json:"version"`
	Flow        []QuestionStep `gorm:"serializer:json" json:"flow"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuestionSetTableItem is the list-view row for a question set.
type QuestionSetTableItem struct {
	QuestionsID   string    `json:"questionsId"`
	Title         string    `json:"title"`
	Version       int       `json:"version"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}
