package database

import (
	"explora_backend/internal/config"
	"explora_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	SeedReferenceData(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Badge{},
		&model.Mission{},
		&model.Phase{},
		&model.QuizQuestion{},
		&model.UserMissionProgress{},
		&model.PhaseAnswer{},
		&model.UserBadge{},
		&model.ExplorationStats{},
	)
}

// SeedReferenceData inserts a starter mission set on an empty database so a
// fresh deployment is playable without the authoring tools.
func SeedReferenceData(db *gorm.DB) {
	var count int64
	db.Model(&model.Mission{}).Count(&count)
	if count > 0 {
		return
	}

	firstStep := &model.Badge{
		Code:        "first_step",
		Name:        "First Step",
		Description: "Complete your first mission",
		Rarity:      model.BadgeRarityCommon,
		IsActive:    true,
	}
	historian := &model.Badge{
		Code:        "historian",
		Name:        "Historian",
		Description: "Answer every question of the old town quiz",
		Rarity:      model.BadgeRarityRare,
		IsActive:    true,
	}
	db.Create(firstStep)
	db.Create(historian)

	intro := &model.Mission{
		Title:       "Welcome to the Old Town",
		Description: "Meet your guide and learn how exploration works.",
		Difficulty:  model.MissionDifficultyEasy,
		XPReward:    200,
		MinLevel:    1,
		IsActive:    true,
		Badges:      []model.Badge{*firstStep},
	}
	db.Create(intro)

	db.Create(&model.Phase{
		MissionID:      intro.ID,
		SequenceNumber: 1,
		Type:           model.PhaseDialogue,
		Description:    "Talk to the guide at the main square.",
		Config:         model.PhaseConfig{NPCName: "Elena the Guide"},
		Points:         50,
		XPReward:       25,
	})
	quizPhase := &model.Phase{
		MissionID:      intro.ID,
		SequenceNumber: 2,
		Type:           model.PhaseQuiz,
		Description:    "Answer the guide's question about the square.",
		Points:         0,
		XPReward:       50,
	}
	db.Create(quizPhase)
	db.Create(&model.QuizQuestion{
		PhaseID:           quizPhase.ID,
		Order:             1,
		Text:              "In which century was the main square built?",
		OptionA:           "15th",
		OptionB:           "16th",
		OptionC:           "17th",
		OptionD:           "18th",
		CorrectOption:     "B",
		FeedbackCorrect:   "Right, the square dates from the 16th century.",
		FeedbackIncorrect: "Not quite, look for the plaque by the fountain.",
		Points:            100,
	})

	tour := &model.Mission{
		Title:         "The Cathedral Route",
		Description:   "Follow the route from the square to the cathedral.",
		Difficulty:    model.MissionDifficultyMedium,
		XPReward:      350,
		MinLevel:      1,
		IsActive:      true,
		Prerequisites: []*model.Mission{intro},
		Badges:        []model.Badge{*historian},
	}
	db.Create(tour)

	db.Create(&model.Phase{
		MissionID:      tour.ID,
		SequenceNumber: 1,
		Type:           model.PhaseVisitPoint,
		Description:    "Reach the cathedral entrance.",
		Config:         model.PhaseConfig{TargetLocationID: "cathedral_entrance"},
		Points:         100,
		XPReward:       40,
	})
	db.Create(&model.Phase{
		MissionID:      tour.ID,
		SequenceNumber: 2,
		Type:           model.PhaseFindArtifact,
		Description:    "Find the founder's seal inside the cloister.",
		Config:         model.PhaseConfig{TargetArtifactID: "founders_seal"},
		Points:         150,
		XPReward:       60,
	})
	db.Create(&model.Phase{
		MissionID:      tour.ID,
		SequenceNumber: 3,
		Type:           model.PhaseFreeExploration,
		Description:    "Explore the cloister gardens.",
		Config:         model.PhaseConfig{MinExplorationSeconds: 60},
		Points:         80,
		XPReward:       30,
	})
	db.Create(&model.Phase{
		MissionID:      tour.ID,
		SequenceNumber: 4,
		Type:           model.PhaseDecision,
		Description:    "Choose how to end the tour.",
		Config: model.PhaseConfig{Options: []model.DecisionOption{
			{ID: "bell_tower", Text: "Climb the bell tower", Consequence: "You see the whole old town from above."},
			{ID: "crypt", Text: "Visit the crypt", Consequence: "You discover the founder's resting place."},
		}},
		Points:   75,
		XPReward: 30,
	})
}
