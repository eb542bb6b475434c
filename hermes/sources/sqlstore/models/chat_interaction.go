// hermes/sources/sqlstore/models/chat_interaction.go
package models

// ChatInteraction is one question/answer exchange. Rows are only ever inserted.
type ChatInteraction struct {
	ID                 uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID             string  `json:"user_id" gorm:"type:text;not null;index"`
	UserMessage        string  `json:"user_message" gorm:"type:text;not null"`
	AssistantMessage   string  `json:"assistant_message" gorm:"type:text;not null"`
	UserTimestamp      string  `json:"user_timestamp" gorm:"type:text;not null"`
	AssistantTimestamp string  `json:"assistant_timestamp" gorm:"type:text;not null"`
	ResponseTimeMs     float64 `json:"response_time_ms" gorm:"not null"`
	ModelName          *string `json:"model_name,omitempty" gorm:"type:text"`
}

func (ChatInteraction) TableName() string {
	return "chat_interactions"
}
