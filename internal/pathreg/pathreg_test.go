package pathreg

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"trims whitespace", "  /tmp/a  ", "/tmp/a", false},
		{"empty after trim", "   ", "", true},
		{"NFC composes combining chars", "é", "é", false},
		{"preserves case and separators", "Dir/File.TXT", "Dir/File.TXT", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegistry_CanProduce(t *testing.T) {
	r := New()
	if !r.CanProduce("A", "") {
		t.Fatalf("CanProduce(unregistered) = false, want true")
	}
	r.AddProducer("A", "x")
	if r.CanProduce("A", "") {
		t.Fatalf("CanProduce(produced, no allowance) = true, want false")
	}
	if !r.CanProduce("A", "x") {
		t.Fatalf("CanProduce(produced, self-allowance) = false, want true")
	}
	if r.CanProduce("A", "y") {
		t.Fatalf("CanProduce(produced, other allowance) = true, want false")
	}
}

func TestRegistry_AddConsumerProducer_Len(t *testing.T) {
	r := New()
	r.AddProducer("A", "x")
	r.AddConsumer("A", "y")
	r.AddConsumer("B", "y")
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if got := r.Producer("A"); got != "x" {
		t.Fatalf("Producer(A) = %q, want x", got)
	}
	if got := r.Producer("B"); got != "" {
		t.Fatalf("Producer(B) = %q, want empty", got)
	}
}

func TestRegistry_Consumers_Sorted(t *testing.T) {
	r := New()
	r.AddConsumer("A", "z")
	r.AddConsumer("A", "a")
	r.AddConsumer("A", "m")
	got := r.Consumers("A")
	want := []string{"a", "m", "z"}
	if len(got) != len(want) {
		t.Fatalf("Consumers(A) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Consumers(A) = %v, want %v", got, want)
		}
	}
}

func TestRegistry_RemoveJob_OrphansEntry(t *testing.T) {
	r := New()
	r.AddProducer("A", "x")
	r.AddConsumer("A", "y")

	r.RemoveJob("A", "y")
	if !r.Has("A") {
		t.Fatalf("Has(A) = false after removing only consumer, producer remains")
	}

	r.RemoveJob("A", "x")
	if r.Has("A") {
		t.Fatalf("Has(A) = true after removing last reference, want orphan dropped")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_RemoveJob_Unregistered(t *testing.T) {
	r := New()
	r.RemoveJob("nope", "x") // must not panic
}

func TestRegistry_List_InsertionOrder(t *testing.T) {
	r := New()
	r.AddConsumer("C", "x")
	r.AddConsumer("A", "x")
	r.AddConsumer("B", "x")
	got := r.List()
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() = %v, want %v", got, want)
		}
	}
}
