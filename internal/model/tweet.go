package model

import "time"

type Tweet struct {
	UUID          string    `db:"uuid" json:"uuid"`
	Message       string    `db:"message" json:"message"`
	CreatedByUUID string    `db:"created_by_uuid" json:"created_by_uuid"`
	CreatedBy     *User     `db:"-" json:"created_by,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	IsDeleted     bool      `db:"is_deleted" json:"-"`
}
