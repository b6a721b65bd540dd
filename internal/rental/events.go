package rental

import (
	"encoding/json"

	"brickblock-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func emit(tx *gorm.DB, propertyID *uint64, eventType, actor string, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.Create(&domain.LedgerEvent{
		PropertyID: propertyID,
		EventType:  eventType,
		Actor:      actor,
		EventData:  datatypes.JSON(b),
	}).Error
}
