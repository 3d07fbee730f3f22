package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"levi/models"
)

func TestHolderReplaceIsAtomic(t *testing.T) {
	old := models.Session{ActorID: "1", Role: models.RoleUser, Token: "old-token"}
	next := models.Session{ActorID: "2", Role: models.RoleProvider, Token: "new-token"}
	h := NewHolder(&old)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, 8)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := h.Current()
				if s == nil {
					continue
				}
				ok := (s.ActorID == "1" && s.Token == "old-token" && s.Role == models.RoleUser) ||
					(s.ActorID == "2" && s.Token == "new-token" && s.Role == models.RoleProvider)
				if !ok {
					errs <- s.ActorID + "/" + s.Token
					return
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			h.Replace(next)
		} else {
			h.Replace(old)
		}
	}
	close(stop)
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Fatalf("observed torn session %s", e)
	}
}

func TestHolderCurrentReturnsCopy(t *testing.T) {
	h := NewHolder(&models.Session{ActorID: "1", Token: "t"})
	s := h.Current()
	s.Token = "mutated"
	if h.Token() != "t" {
		t.Fatalf("holder token changed through copy: %q", h.Token())
	}

	h.Clear()
	if h.Current() != nil || h.Token() != "" {
		t.Fatal("clear left a session behind")
	}
	if !h.Current().Anonymous() {
		t.Fatal("nil session should be anonymous")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty load err=%v", err)
	}
	if err := st.Save(ctx, models.Session{ActorID: "5", Token: "abc"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s, err := st.Load(ctx)
	if err != nil || s.ActorID != "5" || s.Token != "abc" {
		t.Fatalf("load: %+v %v", s, err)
	}
	if err := st.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("load after delete err=%v", err)
	}
}
