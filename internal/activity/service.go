package activity

import (
	"mobilya-backend/internal/config"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
)

type LogOptions struct {
	UserID         uint
	UserName       string
	UserRole       models.UserRole
	Action         string
	Module         string
	EntityType     string
	EntityID       uint
	Description    string
	SourceLocation string
	Destination    string
	Quantity       int
}

// WriteLog: Denetim kaydı ekler. Çağıran taraf bu fonksiyonu yalnızca ilgili
// mutasyon commit olduktan SONRA çağırır; log yazılamazsa işlem geri alınmaz,
// sadece loglanır.
func WriteLog(opts LogOptions) {
	entry := models.ActivityLog{
		UserID:         opts.UserID,
		UserName:       opts.UserName,
		UserRole:       opts.UserRole,
		Action:         opts.Action,
		Module:         opts.Module,
		EntityType:     opts.EntityType,
		EntityID:       opts.EntityID,
		Description:    opts.Description,
		SourceLocation: opts.SourceLocation,
		Destination:    opts.Destination,
		Quantity:       opts.Quantity,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		config.LogError(config.GetLogger(), "activity", "WriteLog", opts.Action, opts, err)
	}
}
