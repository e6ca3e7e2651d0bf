package complaints

import (
	"time"

	"github.com/pulsedesk/complaints/pkg/enrichment"
	"gorm.io/datatypes"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Complaint is the persisted record. The enrichment columns are
// independently nullable: a nil value means the corresponding external call
// failed at submission time.
type Complaint struct {
	ID        string                                  `json:"id" gorm:"primaryKey;column:id"`
	Text      string                                  `json:"text" gorm:"column:text"`
	Status    string                                  `json:"status" gorm:"column:status"`
	Category  *string                                 `json:"category,omitempty" gorm:"column:category"`
	Sentiment *string                                 `json:"sentiment,omitempty" gorm:"column:sentiment"`
	GeoInfo   *datatypes.JSONType[enrichment.GeoInfo] `json:"geo_info,omitempty" gorm:"column:geo_info;type:jsonb"`
	CreatedAt time.Time                               `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time                               `json:"updated_at" gorm:"column:updated_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// Page is the list envelope consumed by the polling automation.
type Page struct {
	Complaints []Complaint `json:"complaints"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
}
