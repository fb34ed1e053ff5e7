package models

import "time"

// Category classifies an anniversary.
type Category string

const (
	CategoryLove     Category = "love"
	CategoryBirthday Category = "birthday"
	CategoryTravel   Category = "travel"
	CategoryCustom   Category = "custom"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLove, CategoryBirthday, CategoryTravel, CategoryCustom:
		return true
	}
	return false
}

// Anniversary is a named, dated occasion owned by a user. When IsRecurring is
// set the date is reinterpreted as repeating yearly.
type Anniversary struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	IsRecurring bool      `json:"is_recurring"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot is a per-year record attached to an anniversary, unique per
// (anniversary, year). ImageRef is an opaque pointer handed over by the
// external upload service.
type Snapshot struct {
	ID            string    `json:"id"`
	AnniversaryID string    `json:"anniversary_id"`
	Year          int       `json:"year"`
	Note          string    `json:"note,omitempty"`
	ImageRef      string    `json:"image_ref,omitempty"`
	Weather       string    `json:"weather,omitempty"`
	Mood          string    `json:"mood,omitempty"`
	Location      string    `json:"location,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Couple pairs two users and records when the relationship started.
type Couple struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	StartDate time.Time `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Todo is a to-do item, visible to the partner when Shared is set.
type Todo struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Shared    bool      `json:"shared"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// Moment is a timeline post: text, an image, or both. Image fields are
// metadata reported by the external upload service.
type Moment struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content,omitempty"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Format    string    `json:"format,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	ByteSize  int       `json:"byte_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AlbumPhoto is an album entry with a one-line memory.
type AlbumPhoto struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Memory    string    `json:"memory"`
	Location  string    `json:"location,omitempty"`
	ShootDate time.Time `json:"shoot_date"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Format    string    `json:"format,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AlbumComment is a comment on an album photo, cascade-deleted with it.
type AlbumComment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photo_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CouplePhoto is an entry on the couple photo wall.
type CouplePhoto struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Caption    string    `json:"caption,omitempty"`
	Memory     string    `json:"memory,omitempty"`
	Location   string    `json:"location,omitempty"`
	ImageRef   string    `json:"image_ref,omitempty"`
	Format     string    `json:"format,omitempty"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	ByteSize   int       `json:"byte_size,omitempty"`
	TakenDate  time.Time `json:"taken_date"`
	IsFavorite bool      `json:"is_favorite"`
	IsPrivate  bool      `json:"is_private"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
