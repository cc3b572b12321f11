package model

// User stores the identity issued by the external identity provider.
// The row is a local cache: it is replaced on every sign-in and removed on sign-out.
type User struct {
	ID          string `gorm:"primaryKey"`
	Email       string
	DisplayName *string
	AvatarURL   *string
}

func (u User) GetID() string      { return u.ID }
func (u User) GetOwnerID() string { return u.ID }
