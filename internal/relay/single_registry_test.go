package relay

import "testing"

func newRegisteredSession(id string) *Session {
	return NewSession(id, SingleTopology, newFakeSocket(), DefaultConfig(), nil)
}

func TestSingleRegistryInsertReturnsPrior(t *testing.T) {
	r := NewSingleRegistry()
	a := newRegisteredSession("a")
	if prior := r.Insert("a", a); prior != nil {
		t.Fatalf("expected no prior session, got %v", prior)
	}

	b := newRegisteredSession("a")
	prior := r.Insert("a", b)
	if prior != a {
		t.Fatalf("expected prior to be a, got %v", prior)
	}

	got, ok := r.Get("a")
	if !ok || got != b {
		t.Fatalf("expected current session to be b")
	}
}

func TestSingleRegistryAtMostOnePerId(t *testing.T) {
	r := NewSingleRegistry()
	r.Insert("a", newRegisteredSession("a"))
	r.Insert("a", newRegisteredSession("a"))
	if count := r.Count("a"); count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}

func TestSingleRegistryRemoveIfIdentityGuard(t *testing.T) {
	r := NewSingleRegistry()
	a := newRegisteredSession("a")
	r.Insert("a", a)

	b := newRegisteredSession("a")
	r.Insert("a", b) // replaces a

	// a's own teardown must not clobber b's registration.
	if removed := r.RemoveIf("a", a); removed {
		t.Fatal("expected RemoveIf(a) to be a no-op after replacement")
	}
	got, ok := r.Get("a")
	if !ok || got != b {
		t.Fatal("expected b to remain registered")
	}

	if removed := r.RemoveIf("a", b); !removed {
		t.Fatal("expected RemoveIf(b) to succeed")
	}
	if _, ok := r.Get("a"); ok {
		t.Fatal("expected no session registered after removal")
	}
}

func TestSingleRegistryCountAbsent(t *testing.T) {
	r := NewSingleRegistry()
	if count := r.Count("missing"); count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}
