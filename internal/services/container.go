package services

import (
	"time"

	"taskflow/internal/config"
	"taskflow/internal/store"
	"taskflow/internal/validation"
)

// NewServiceContainer wires every service over one store
func NewServiceContainer(s store.Store, cfg *config.Config, now Clock) *ServiceContainer {
	if now == nil {
		now = time.Now
	}
	taskValidator := validation.NewTaskValidator()
	if cfg != nil {
		taskValidator = validation.NewTaskValidatorWithConfig(cfg)
	}

	return &ServiceContainer{
		TaskService:      NewTaskService(s, taskValidator, now),
		CategoryService:  NewCategoryService(s),
		SearchService:    NewSearchService(s, now),
		ReportingService: NewReportingService(s, now),
	}
}
