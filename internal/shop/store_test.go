package shop

import (
	"sync"
	"testing"
)

func TestStoreBasics(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get(1); ok {
		t.Fatal("empty store returned a session")
	}

	store.Set(Session{UserID: 1, Step: StepAwaitingName})
	sess, ok := store.Get(1)
	if !ok || sess.Step != StepAwaitingName {
		t.Fatalf("got %+v ok=%v", sess, ok)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d", store.Len())
	}

	sess.Name = "Jane"
	sess.Step = StepAwaitingPhone
	store.Set(sess)
	got, _ := store.Get(1)
	if got.Name != "Jane" || got.Step != StepAwaitingPhone {
		t.Fatalf("update lost: %+v", got)
	}

	if !store.Delete(1) {
		t.Fatal("Delete reported no session")
	}
	if store.Delete(1) {
		t.Fatal("second Delete reported a session")
	}
	if store.Len() != 0 {
		t.Fatalf("Len = %d after delete", store.Len())
	}
}

func TestStoreSerializesPerUser(t *testing.T) {
	store := NewStore()
	store.Set(Session{UserID: 7, Step: StepAwaitingName})

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			unlock := store.Lock(7)
			defer unlock()
			sess, _ := store.Get(7)
			if sess.Step == StepAwaitingName {
				sess.Step = StepAwaitingPhone
				sess.Name = "first writer"
				store.Set(sess)
			}
		}()
	}
	wg.Wait()

	sess, _ := store.Get(7)
	if sess.Step != StepAwaitingPhone || sess.Name != "first writer" {
		t.Fatalf("lost update: %+v", sess)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Set(Session{UserID: 3, Step: StepAwaitingPhone, Name: "orig"})

	sess, _ := store.Get(3)
	sess.Name = "mutated"

	kept, _ := store.Get(3)
	if kept.Name != "orig" {
		t.Fatalf("store aliased returned session: %+v", kept)
	}
}
