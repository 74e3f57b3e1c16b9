package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Signup{},
		&Comment{},
		&Attendance{},
	)
}

// dropAllTables is used by integration tests to start from an empty schema.
func dropAllTables(db *gorm.DB) error {
	return db.Migrator().DropTable(&Attendance{}, &Comment{}, &Signup{}, &Event{}, &User{})
}
