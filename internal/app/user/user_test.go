package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataMerge(t *testing.T) {
	base := Metadata{
		FullName: String("Ada Lovelace"),
		PlanName: String("Free"),
		Tokens:   Int(2),
		Company:  String("Analytical Engines Ltd"),
	}

	t.Run("set fields replace, absent fields survive", func(t *testing.T) {
		merged := base.Merge(MetadataPatch{
			FullName: String("Ada King"),
			Tokens:   Int(1),
		})

		assert.Equal(t, "Ada King", *merged.FullName)
		assert.Equal(t, 1, *merged.Tokens)
		assert.Equal(t, "Free", *merged.PlanName)
		assert.Equal(t, "Analytical Engines Ltd", *merged.Company)
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		merged := base.Merge(MetadataPatch{})
		assert.Equal(t, base, merged)
	})

	t.Run("merge does not alias the source", func(t *testing.T) {
		merged := base.Merge(MetadataPatch{Bio: String("pioneer")})
		*merged.FullName = "changed"
		assert.Equal(t, "Ada Lovelace", *base.FullName)
	})

	t.Run("settings merge field by field", func(t *testing.T) {
		withSettings := base.Clone()
		withSettings.Settings = &Settings{
			Theme:    String("dark"),
			Language: String("en"),
		}

		merged := withSettings.Merge(MetadataPatch{
			Settings: &SettingsPatch{Theme: String("light")},
		})

		require.NotNil(t, merged.Settings)
		assert.Equal(t, "light", *merged.Settings.Theme)
		assert.Equal(t, "en", *merged.Settings.Language)
	})

	t.Run("settings patch on empty settings creates the record", func(t *testing.T) {
		merged := base.Merge(MetadataPatch{
			Settings: &SettingsPatch{Timezone: String("UTC")},
		})

		require.NotNil(t, merged.Settings)
		assert.Equal(t, "UTC", *merged.Settings.Timezone)
		assert.Nil(t, merged.Settings.Theme)
	})
}

func TestUserClone(t *testing.T) {
	u := User{
		ID:    "u-1",
		Email: "ada@example.com",
		Metadata: Metadata{
			Tokens:   Int(2),
			Settings: &Settings{Theme: String("dark")},
		},
	}

	cloned := u.Clone()
	*cloned.Metadata.Tokens = 99
	*cloned.Metadata.Settings.Theme = "light"

	assert.Equal(t, 2, *u.Metadata.Tokens)
	assert.Equal(t, "dark", *u.Metadata.Settings.Theme)
}

func TestUserDefaults(t *testing.T) {
	t.Run("plan defaults to Free", func(t *testing.T) {
		assert.Equal(t, "Free", User{}.PlanNameOrDefault())
		assert.Equal(t, "Free", User{Metadata: Metadata{PlanName: String("")}}.PlanNameOrDefault())
		assert.Equal(t, "Professional", User{Metadata: Metadata{PlanName: String("Professional")}}.PlanNameOrDefault())
	})

	t.Run("token balance defaults to zero", func(t *testing.T) {
		assert.Equal(t, 0, User{}.TokenBalance())
		assert.Equal(t, 5, User{Metadata: Metadata{Tokens: Int(5)}}.TokenBalance())
	})
}
