package types

// Vehicle описание транспорта, доступного у провайдера.
// Поля JSON повторяют ответ удалённого сервиса.
type Vehicle struct {
	ID                string     `json:"id" gorm:"column:id;primaryKey"`
	Name              string     `json:"name" gorm:"column:name"`
	X                 float64    `json:"x" gorm:"column:x"`
	Y                 float64    `json:"y" gorm:"column:y"`
	LicencePlate      string     `json:"licencePlate" gorm:"column:licence_plate"`
	Range             int64      `json:"range" gorm:"column:range"`
	BatteryLevel      int        `json:"batteryLevel" gorm:"column:battery_level"`
	Helmets           int        `json:"helmets" gorm:"column:helmets"`
	Model             string     `json:"model" gorm:"column:model"`
	ResourceImageID   string     `json:"resourceImageId" gorm:"column:resource_image_id"`
	ResourceImageURLs StringList `json:"resourcesImagesUrls" gorm:"column:resource_image_urls;type:text"`
	RealTimeData      bool       `json:"realTimeData" gorm:"column:real_time_data"`
	ResourceType      string     `json:"resourceType" gorm:"column:resource_type"`
	CompanyZoneID     int64      `json:"companyZoneId" gorm:"column:company_zone_id"`
}

func (Vehicle) TableName() string {
	return "vehicle"
}

// IDs возвращает идентификаторы в исходном порядке
func IDs(vehicles []Vehicle) []string {
	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
	}
	return ids
}
