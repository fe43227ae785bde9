package directory

import "testing"

func names(ds []Doctor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

func TestCatalogSize(t *testing.T) {
	if n := len(Catalog()); n != 12 {
		t.Fatalf("expected 12 doctors, got %d", n)
	}
	if n := len(Specialties()); n != 12 {
		t.Fatalf("expected 12 specialties, got %d", n)
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Name = "changed"
	if Catalog()[0].Name == "changed" {
		t.Fatal("expected Catalog to return a copy")
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		search    string
		specialty string
		want      []string
	}{
		{"all", "", "All", nil},
		{"empty specialty is all", "", "", nil},
		{"by specialty", "", "Dentist", []string{"Dr. Ritesh Kapoor"}},
		{"by name case insensitive", "SHARMA", "All", []string{"Dr. Aarav Sharma", "Dr. Ananya Sharma"}},
		{"name and specialty", "sharma", "Ophthalmologist", []string{"Dr. Ananya Sharma"}},
		{"no match", "house", "All", []string{}},
		{"specialty is exact", "", "dentist", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := names(Filter(Catalog(), tc.search, tc.specialty))
			if tc.want == nil {
				if len(got) != 12 {
					t.Fatalf("expected full catalog, got %v", got)
				}
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestSpecialtiesOrder(t *testing.T) {
	s := Specialties()
	if s[0] != "Cardiologist" || s[len(s)-1] != "Nutritionist" {
		t.Fatalf("unexpected order: %v", s)
	}
}
