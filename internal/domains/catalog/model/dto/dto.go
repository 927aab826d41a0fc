package dto

import (
	"salon/internal/domains/catalog/model"
	"salon/shared"
)

type ServiceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           string  `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

func (r *ServiceResponse) FromModel(service model.Service) {
	r.ID = service.ID
	r.Name = service.Name
	r.Description = service.Description
	r.Price = service.Price.StringFixed(2)
	r.DurationMinutes = service.DurationMinutes
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}
