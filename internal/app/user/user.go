/*
Package user contains the core data structures for user identity and profile metadata.

It defines the User struct owned by the external identity provider, the typed metadata
bag stored alongside it, and the patch type used for partial metadata updates.
*/
package user

// User represents an authenticated account as reported by the identity provider.
// Identity fields (ID, Email) are read-only to the rest of the application; the
// metadata bag is mutated only through the session context's update operation.
type User struct {
	// ID is the identity provider's unique identifier for the account.
	ID string `json:"id"`

	// Email is the account's sign-in email address.
	Email string `json:"email"`

	// Metadata holds the free-form profile and settings data attached to the account.
	Metadata Metadata `json:"user_metadata"`
}

// Metadata is the per-user profile bag persisted by the identity provider.
// Every field is optional; a nil pointer means "unset", never an error.
type Metadata struct {
	FullName *string   `json:"fullname,omitempty"`
	PlanName *string   `json:"plan_name,omitempty"`
	Tokens   *int      `json:"tokens,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Company  *string   `json:"company,omitempty"`
	Position *string   `json:"position,omitempty"`
	Location *string   `json:"location,omitempty"`
	Bio      *string   `json:"bio,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

// Settings is the nested preferences record inside the metadata bag.
type Settings struct {
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	PushNotifications  *bool   `json:"push_notifications,omitempty"`
	MarketingEmails    *bool   `json:"marketing_emails,omitempty"`
	Theme              *string `json:"theme,omitempty"`
	Language           *string `json:"language,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
}

// MetadataPatch describes a partial metadata update. Nil fields are left untouched
// by Merge; set fields replace the current value wholesale. The nested settings
// record is itself merged field by field.
type MetadataPatch struct {
	FullName *string        `json:"fullname,omitempty"`
	PlanName *string        `json:"plan_name,omitempty"`
	Tokens   *int           `json:"tokens,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	Company  *string        `json:"company,omitempty"`
	Position *string        `json:"position,omitempty"`
	Location *string        `json:"location,omitempty"`
	Bio      *string        `json:"bio,omitempty"`
	Settings *SettingsPatch `json:"settings,omitempty"`
}

// SettingsPatch describes a partial update of the nested settings record.
type SettingsPatch struct {
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	PushNotifications  *bool   `json:"push_notifications,omitempty"`
	MarketingEmails    *bool   `json:"marketing_emails,omitempty"`
	Theme              *string `json:"theme,omitempty"`
	Language           *string `json:"language,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
}

// Merge returns a copy of m with every set field of patch applied. Fields absent
// from the patch keep their current value, so a successful update never drops
// existing metadata.
func (m Metadata) Merge(patch MetadataPatch) Metadata {
	merged := m.Clone()

	if patch.FullName != nil {
		merged.FullName = cloneString(patch.FullName)
	}
	if patch.PlanName != nil {
		merged.PlanName = cloneString(patch.PlanName)
	}
	if patch.Tokens != nil {
		merged.Tokens = cloneInt(patch.Tokens)
	}
	if patch.Phone != nil {
		merged.Phone = cloneString(patch.Phone)
	}
	if patch.Company != nil {
		merged.Company = cloneString(patch.Company)
	}
	if patch.Position != nil {
		merged.Position = cloneString(patch.Position)
	}
	if patch.Location != nil {
		merged.Location = cloneString(patch.Location)
	}
	if patch.Bio != nil {
		merged.Bio = cloneString(patch.Bio)
	}
	if patch.Settings != nil {
		settings := Settings{}
		if merged.Settings != nil {
			settings = *merged.Settings
		}
		settings = settings.merge(*patch.Settings)
		merged.Settings = &settings
	}

	return merged
}

// merge applies the set fields of patch over s and returns the result.
func (s Settings) merge(patch SettingsPatch) Settings {
	if patch.EmailNotifications != nil {
		s.EmailNotifications = cloneBool(patch.EmailNotifications)
	}
	if patch.PushNotifications != nil {
		s.PushNotifications = cloneBool(patch.PushNotifications)
	}
	if patch.MarketingEmails != nil {
		s.MarketingEmails = cloneBool(patch.MarketingEmails)
	}
	if patch.Theme != nil {
		s.Theme = cloneString(patch.Theme)
	}
	if patch.Language != nil {
		s.Language = cloneString(patch.Language)
	}
	if patch.Timezone != nil {
		s.Timezone = cloneString(patch.Timezone)
	}
	return s
}

// Clone returns a deep copy of the metadata bag. Callers receive independent
// pointers, so a clone can be handed out without risking shared mutation.
func (m Metadata) Clone() Metadata {
	out := Metadata{
		FullName: cloneString(m.FullName),
		PlanName: cloneString(m.PlanName),
		Tokens:   cloneInt(m.Tokens),
		Phone:    cloneString(m.Phone),
		Company:  cloneString(m.Company),
		Position: cloneString(m.Position),
		Location: cloneString(m.Location),
		Bio:      cloneString(m.Bio),
	}
	if m.Settings != nil {
		settings := Settings{
			EmailNotifications: cloneBool(m.Settings.EmailNotifications),
			PushNotifications:  cloneBool(m.Settings.PushNotifications),
			MarketingEmails:    cloneBool(m.Settings.MarketingEmails),
			Theme:              cloneString(m.Settings.Theme),
			Language:           cloneString(m.Settings.Language),
			Timezone:           cloneString(m.Settings.Timezone),
		}
		out.Settings = &settings
	}
	return out
}

// Clone returns a deep copy of the user, metadata included.
func (u User) Clone() User {
	return User{
		ID:       u.ID,
		Email:    u.Email,
		Metadata: u.Metadata.Clone(),
	}
}

// PlanNameOrDefault returns the plan name, defaulting to "Free" when unset.
func (u User) PlanNameOrDefault() string {
	if u.Metadata.PlanName != nil && *u.Metadata.PlanName != "" {
		return *u.Metadata.PlanName
	}
	return "Free"
}

// TokenBalance returns the remaining token balance, defaulting to zero when unset.
func (u User) TokenBalance() int {
	if u.Metadata.Tokens != nil {
		return *u.Metadata.Tokens
	}
	return 0
}

// String returns s as an optional metadata value.
func String(s string) *string { return &s }

// Int returns n as an optional metadata value.
func Int(n int) *int { return &n }

// Bool returns b as an optional metadata value.
func Bool(b bool) *bool { return &b }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
