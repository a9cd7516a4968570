package toast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
)

func TestManager_NotifyDrain(t *testing.T) {
	m := NewManager(4)

	m.Notify("user-1", models.Toast{Title: "a"})
	m.Notify("user-1", models.Toast{Title: "b"})
	m.Notify("user-2", models.Toast{Title: "c"})
	m.Notify("", models.Toast{Title: "ignored"})

	require.Equal(t, 2, m.Pending("user-1"))

	got := m.Drain("user-1")
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Title)
	require.False(t, got[0].CreatedAt.IsZero())

	require.Empty(t, m.Drain("user-1"))
	require.Equal(t, 1, m.Pending("user-2"))
}

func TestManager_DropsOldest(t *testing.T) {
	m := NewManager(3)
	for i := 0; i < 5; i++ {
		m.Notify("user-1", models.Toast{Title: fmt.Sprint(i)})
	}

	got := m.Drain("user-1")
	require.Len(t, got, 3)
	require.Equal(t, "2", got[0].Title)
	require.Equal(t, "4", got[2].Title)
}

func TestManager_Shutdown(t *testing.T) {
	m := NewManager(0)
	m.Notify("user-1", models.Toast{Title: "x"})
	m.Shutdown()
	require.Zero(t, m.Pending("user-1"))
}
