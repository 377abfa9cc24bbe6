package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("customer")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	_, err = ParseRole("Admin")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_ZeroValueIsInvalid(t *testing.T) {
	var role Role
	assert.False(t, role.Valid())

	_, err := json.Marshal(role)
	assert.Error(t, err)
}

func TestRole_BSONStoredAsString(t *testing.T) {
	data, err := bson.Marshal(Profile{ID: "u1", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin", bson.Raw(data).Lookup("role").StringValue())

	var out Profile
	require.NoError(t, bson.Unmarshal(data, &out))
	assert.Equal(t, RoleAdmin, out.Role)
}

func TestRole_BSONRejectsUnknown(t *testing.T) {
	data, err := bson.Marshal(bson.M{"_id": "u1", "role": "superuser"})
	require.NoError(t, err)

	var out Profile
	assert.Error(t, bson.Unmarshal(data, &out))
}

func TestIdentity_IsAdmin(t *testing.T) {
	assert.True(t, Identity{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Identity{Role: RoleCustomer}.IsAdmin())
	assert.False(t, Identity{}.IsAdmin())
}
