package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// Companion is the aggregate root of the simulation. Every interaction,
// decay evaluation and quest resolution mutates exactly one of these
// records; two companions never share state.
type Companion struct {
	bun.BaseModel `bun:"table:companions,alias:c"`

	ID   snowflake.ID `bun:"id,pk"`
	Name string       `bun:"name,notnull"`

	// Progression
	Level      int    `bun:"level,notnull,default:1"`
	Experience int64  `bun:"experience,notnull,default:0"`
	Stage      Stage  `bun:"stage,notnull"` // derived from Level, cached
	Mood       Mood   `bun:"mood,notnull"`  // derived from stats, cached

	// Bounded stats, all clamped to [0,100]. Hunger is inverted:
	// higher means hungrier.
	Hunger      int `bun:"hunger,notnull,default:30"`
	Happiness   int `bun:"happiness,notnull,default:80"`
	Health      int `bun:"health,notnull,default:100"`
	Energy      int `bun:"energy,notnull,default:100"`
	Cleanliness int `bun:"cleanliness,notnull,default:100"`

	// Bonding
	BondLevel int `bun:"bond_level,notnull,default:0"`
	Affinity  int `bun:"affinity,notnull,default:0"`

	// Arrays stored as JSONB
	UnlockedAbilities []string        `bun:"unlocked_abilities,type:jsonb"`
	ActiveQuests      []QuestInstance `bun:"active_quests,type:jsonb"`
	QuestHistory      []QuestInstance `bun:"quest_history,type:jsonb"`

	// Counters
	TotalInteractions int   `bun:"total_interactions,notnull,default:0"`
	TimesFeeding      int   `bun:"times_feeding,notnull,default:0"`
	TotalXPSpent      int64 `bun:"total_xp_spent,notnull,default:0"`

	// Wall-clock anchors, milliseconds since epoch. DecayAnchorAt marks
	// how far passive decay has already been accounted for.
	LastFedAt     int64 `bun:"last_fed_at,notnull,default:0"`
	LastPlayedAt  int64 `bun:"last_played_at,notnull,default:0"`
	DecayAnchorAt int64 `bun:"decay_anchor_at,notnull,default:0"`

	// Cosmetics, no gameplay effect
	Color        string `bun:"color"`
	Skin         string `bun:"skin"`
	FavoriteFood string `bun:"favorite_food"`
	Emoji        string `bun:"emoji"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// QuestInstance is a started quest owned by one companion, persisted as
// part of the companion record. Status only ever moves forward:
// available -> active -> completed|failed.
type QuestInstance struct {
	ID          snowflake.ID `json:"id"`
	TemplateID  string       `json:"template_id"`
	Status      QuestStatus  `json:"status"`
	StartTime   int64        `json:"start_time"`   // ms since epoch
	CompletedAt int64        `json:"completed_at"` // ms since epoch, 0 while active
}

// Stage is the evolution tier, a pure function of Level.
type Stage string

const (
	StageEgg       Stage = "egg"
	StageBaby      Stage = "baby"
	StageTeen      Stage = "teen"
	StageAdult     Stage = "adult"
	StageLegendary Stage = "legendary"
	StageMythic    Stage = "mythic"
)

// Mood is derived from the stat snapshot after every mutation.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodExcited Mood = "excited"
	MoodPlayful Mood = "playful"
	MoodContent Mood = "content"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodSleepy  Mood = "sleepy"
)

// QuestStatus constants
type QuestStatus string

const (
	QuestStatusAvailable QuestStatus = "available"
	QuestStatusActive    QuestStatus = "active"
	QuestStatusCompleted QuestStatus = "completed"
	QuestStatusFailed    QuestStatus = "failed"
)

// HasAbility reports whether the ability id is already unlocked.
func (c *Companion) HasAbility(id string) bool {
	for _, a := range c.UnlockedAbilities {
		if a == id {
			return true
		}
	}
	return false
}

// ActiveQuest returns the active quest instance with the given id.
func (c *Companion) ActiveQuest(id snowflake.ID) (*QuestInstance, bool) {
	for i := range c.ActiveQuests {
		if c.ActiveQuests[i].ID == id {
			return &c.ActiveQuests[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so observers can hold the record without
// racing the next mutation.
func (c *Companion) Clone() *Companion {
	dup := *c
	dup.UnlockedAbilities = append([]string(nil), c.UnlockedAbilities...)
	dup.ActiveQuests = append([]QuestInstance(nil), c.ActiveQuests...)
	dup.QuestHistory = append([]QuestInstance(nil), c.QuestHistory...)
	return &dup
}
