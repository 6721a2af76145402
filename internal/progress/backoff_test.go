package progress

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Run("Doubling Sequence", func(t *testing.T) {
		b := NewBackoff()

		want := []time.Duration{
			1000 * time.Millisecond,
			2000 * time.Millisecond,
			4000 * time.Millisecond,
			8000 * time.Millisecond,
			16000 * time.Millisecond,
			30000 * time.Millisecond,
			30000 * time.Millisecond,
		}

		for i, w := range want {
			if got := b.Next(); got != w {
				t.Errorf("attempt %d: Next() = %s, want %s", i, got, w)
			}
		}
	})

	t.Run("Reset After Successful Open", func(t *testing.T) {
		b := NewBackoff()
		b.Next()
		b.Next()
		b.Next()

		b.Reset()

		if got := b.Next(); got != 1000*time.Millisecond {
			t.Errorf("Next() after Reset() = %s, want 1s", got)
		}
		if got := b.Next(); got != 2000*time.Millisecond {
			t.Errorf("second Next() after Reset() = %s, want 2s", got)
		}
	})
}
