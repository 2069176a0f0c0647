package gateway

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrate brings the SQL schema up to date.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250301_create_collections",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&projectRow{}, &userRow{}, &reportRow{}, &announcementRow{}, &attendanceRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(TableAttendance, TableAnnouncements, TableReports, TableUsers, TableProjects)
			},
		},
	})
	return m.Migrate()
}
