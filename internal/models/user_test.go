package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantmart/storefront-gateway/internal/models"
)

func TestParseRole(t *testing.T) {
	t.Run("Success - Known Roles", func(t *testing.T) {
		for _, raw := range []string{"admin", "seller", "customer"} {
			role, err := models.ParseRole(raw)

			require.NoError(t, err)
			assert.Equal(t, models.Role(raw), role)
		}
	})

	t.Run("Failure - Unknown Role Fails Closed", func(t *testing.T) {
		for _, raw := range []string{"", "superadmin", "Customer", "ADMIN"} {
			role, err := models.ParseRole(raw)

			require.Error(t, err)
			assert.Empty(t, role)
		}
	})
}

func TestUserUnmarshalJSON(t *testing.T) {
	t.Run("Success - Canonical userType Field", func(t *testing.T) {
		// Arrange
		payload := `{"id":"user-1","name":"Ada","email":"ada@example.com","userType":"customer"}`

		// Act
		var user models.User
		err := json.Unmarshal([]byte(payload), &user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, user.UserType)
	})

	t.Run("Success - Legacy role Field Accepted", func(t *testing.T) {
		// Arrange
		payload := `{"id":"user-2","name":"Sam","email":"sam@example.com","role":"seller","applicationStatus":"approved"}`

		// Act
		var user models.User
		err := json.Unmarshal([]byte(payload), &user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.RoleSeller, user.UserType)
		assert.Equal(t, models.ApplicationApproved, user.ApplicationStatus)
	})

	t.Run("Success - userType Wins Over Legacy role", func(t *testing.T) {
		// Arrange
		payload := `{"id":"user-3","userType":"customer","role":"admin"}`

		// Act
		var user models.User
		err := json.Unmarshal([]byte(payload), &user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, user.UserType)
	})

	t.Run("Failure - Unknown Role Rejected", func(t *testing.T) {
		// Arrange
		payload := `{"id":"user-4","userType":"root"}`

		// Act
		var user models.User
		err := json.Unmarshal([]byte(payload), &user)

		// Assert
		require.Error(t, err)
	})

	t.Run("Failure - Missing Role Rejected", func(t *testing.T) {
		// Arrange
		payload := `{"id":"user-5","name":"Eve"}`

		// Act
		var user models.User
		err := json.Unmarshal([]byte(payload), &user)

		// Assert
		require.Error(t, err)
	})
}
