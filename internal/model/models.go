package model

// All 全部需要建表的模型，顺序满足外键依赖（测试中 AutoMigrate 使用）
func All() []interface{} {
	return []interface{}{
		&Account{},
		&UserProfile{},
		&Menu{},
		&Role{},
		&Tag{},
		&Course{},
		&Branch{},
		&Customer{},
		&CustomerFollowUp{},
		&ClassList{},
		&CourseRecord{},
		&Enrollment{},
		&StudyRecord{},
		&Payment{},
	}
}
