// Package domain defines the persistence models for profiles, chat rooms,
// messages, and presence records. These types are mapped with GORM and form
// the core data layer of the bilingual chat application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Profile represents a registered user's public identity. Authentication is
// handled by an external identity provider; this row only carries display
// data joined into presence listings.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), matching the identity provider.
//   - FullName / DisplayName: optional presentation names.
//   - AvatarURL: optional avatar location in object storage.
//   - Location: optional free-form location string.
//   - Languages: comma-separated language tags the user speaks.
//   - ShareID: short public identifier used for profile sharing links.
type Profile struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	FullName    *string        `json:"full_name"    gorm:"type:varchar(120)"`
	DisplayName *string        `json:"display_name" gorm:"type:varchar(120)"`
	AvatarURL   *string        `json:"avatar_url"   gorm:"type:varchar(512)"`
	Location    *string        `json:"location"     gorm:"type:varchar(120)"`
	Languages   string         `json:"languages"    gorm:"type:varchar(255)"`
	ShareID     string         `json:"share_id"     gorm:"type:char(36);uniqueIndex"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// ChatRoom represents a chat context. Exactly one public room exists at any
// time (created lazily when first requested); private rooms are owned by the
// profile that created them. Public rooms have no owner.
type ChatRoom struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"       gorm:"type:varchar(120);not null"`
	IsPublic  bool           `json:"is_public"  gorm:"not null;default:false;index"`
	OwnerID   *string        `json:"owner_id"   gorm:"type:char(36);index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for ChatRoom.
func (ChatRoom) TableName() string { return "chat_rooms" }

// Message represents a single chat message with its translation. SenderID is
// null for anonymous senders in the public room; SenderName is a denormalized
// snapshot taken at send time, never a live reference. Messages within a room
// are totally ordered by (CreatedAt, ID) and their ID is the deduplication
// key across the historical load and the live stream.
type Message struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	RoomID      string         `json:"room_id"     gorm:"type:char(36);not null;index:idx_room_msgs,priority:1"`
	SenderID    *string        `json:"sender_id"   gorm:"type:char(36);index"`
	SenderName  *string        `json:"sender_name" gorm:"type:varchar(120)"`
	Text        string         `json:"text"        gorm:"type:text;not null"`
	Translation string         `json:"translation" gorm:"type:text;not null"`
	Language    string         `json:"language"    gorm:"type:varchar(8)"`
	CreatedAt   time.Time      `json:"created_at"  gorm:"index:idx_room_msgs,priority:2"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Room is the parent chat room. Messages are cascade-deleted if their
	// room is removed.
	Room ChatRoom `json:"-" gorm:"foreignKey:RoomID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Presence is a time-bounded claim that a profile is currently viewing a
// room. Rows are upserted on every heartbeat and pruned by the staleness
// cleanup call; a record counts as active only while LastSeen is within the
// configured freshness window.
type Presence struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ProfileID string    `json:"profile_id" gorm:"type:char(36);not null;uniqueIndex:ux_presence_profile_room"`
	RoomID    string    `json:"room_id"    gorm:"type:char(36);not null;index;uniqueIndex:ux_presence_profile_room"`
	LastSeen  time.Time `json:"last_seen"  gorm:"not null;index"`

	// Profile carries the display data joined into active-user listings.
	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Presence.
func (Presence) TableName() string { return "presence" }
