package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{StatusPending, StatusOutForDelivery}:  true,
		{StatusPending, StatusFailed}:          true,
		{StatusOutForDelivery, StatusDelivered}: true,
		{StatusOutForDelivery, StatusFailed}:   true,
	}
	statuses := []string{StatusPending, StatusOutForDelivery, StatusDelivered, StatusFailed}

	for _, from := range statuses {
		for _, to := range statuses {
			require.Equal(t, allowed[[2]string{from, to}], CanTransition(from, to), "from %s to %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	require.False(t, CanTransition("bogus", StatusDelivered))
	require.False(t, CanTransition(StatusPending, "bogus"))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusOutForDelivery, StatusDelivered, StatusFailed} {
		require.True(t, IsValidStatus(s), s)
	}
	require.False(t, IsValidStatus("bogus"))
	require.False(t, IsValidStatus(""))
}

func TestUserRef(t *testing.T) {
	user := User{Id: "usr-1", Name: "Mario", Mail: "m@example.com", Role: RoleAdmin}

	require.Equal(t, UserRef{Id: "usr-1", Name: "Mario"}, user.Ref())
	require.True(t, user.IsAdmin())
	require.False(t, User{Role: RoleDriver}.IsAdmin())
}
