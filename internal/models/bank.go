package models

type Bank struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"not null;uniqueIndex"`
	Code   string `gorm:"not null"`
	Active bool   `gorm:"not null;default:true"`
}

type SeedBank struct {
	Name string
	Code string
}

func DefaultSeedBanks() []SeedBank {
	return []SeedBank{
		{Name: "BBVA", Code: "bbva"},
		{Name: "BCP", Code: "bcp"},
		{Name: "Interbank", Code: "interbank"},
		{Name: "Scotiabank", Code: "scotiabank"},
		{Name: "Banco de la Nación", Code: "bn"},
	}
}
