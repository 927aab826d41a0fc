package dto

import (
	"salon/shared/constant"
	"salon/shared/model"
	"salon/shared/timezone"
)

// Metadata is the audit trail rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by"`
}

func NewMetadata(source model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(source.CreatedAt, constant.DateFormat),
		CreatedBy:  source.CreatedBy,
		ModifiedAt: timezone.Format(source.ModifiedAt, constant.DateFormat),
		ModifiedBy: source.ModifiedBy,
	}
}
