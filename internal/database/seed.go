package database

import (
	"gorm.io/gorm"

	"gamerent/internal/model"
	"gamerent/pkg/log"
)

// launchCatalog is inserted once on an empty catalog so a fresh deployment
// has something to rent.
var launchCatalog = []model.Game{
	{
		Title:       "The Last of Us Part II",
		Description: "A thrilling action-adventure game set in a post-apocalyptic world.",
		ImageURL:    "https://images.unsplash.com/photo-1592155931584-901ac15763e3?auto=format&fit=crop&w=800&q=80",
		PricePerDay: 5.99,
		Platform:    model.PlatformPS5,
		Available:   true,
	},
	{
		Title:       "Halo Infinite",
		Description: "Master Chief returns in the biggest Halo adventure yet.",
		ImageURL:    "https://images.unsplash.com/photo-1612287230202-1ff1d85d1bdf?auto=format&fit=crop&w=800&q=80",
		PricePerDay: 4.99,
		Platform:    model.PlatformXbox,
		Available:   true,
	},
	{
		Title:       "Super Mario Odyssey",
		Description: "Join Mario on a massive, globe-trotting 3D adventure.",
		ImageURL:    "https://images.unsplash.com/photo-1566576912321-d58ddd7a6088?auto=format&fit=crop&w=800&q=80",
		PricePerDay: 3.99,
		Platform:    model.PlatformSwitch,
		Available:   true,
	},
}

// Seed inserts the launch catalog when the games table is empty
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Game{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range launchCatalog {
		if err := db.Create(&launchCatalog[i]).Error; err != nil {
			return err
		}
	}

	log.Infof("Seeded %d launch titles", len(launchCatalog))
	return nil
}
