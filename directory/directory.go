// Package directory is the built-in catalog of DocCare doctors.
package directory

import "strings"

// AllSpecialties selects every specialty in Filter.
const AllSpecialties = "All"

// Doctor is one catalog entry.
type Doctor struct {
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

var catalog = []Doctor{
	{
		Name:        "Dr. Aarav Sharma",
		Specialty:   "Cardiologist",
		Image:       "https://randomuser.me/api/portraits/men/32.jpg",
		Description: "Leading cardiologist with 15 years of experience in heart surgeries and preventive cardiology.",
	},
	{
		Name:        "Dr. Meera Kapoor",
		Specialty:   "Dermatologist",
		Image:       "https://randomuser.me/api/portraits/women/44.jpg",
		Description: "Specializes in skin disorders, cosmetic dermatology, and laser treatments, with over 10 years in practice.",
	},
	{
		Name:        "Dr. Rohan Gupta",
		Specialty:   "Orthopedic",
		Image:       "https://randomuser.me/api/portraits/men/45.jpg",
		Description: "Orthopedic surgeon focusing on joint replacements, sports injuries, and rehabilitation.",
	},
	{
		Name:        "Dr. Neha Verma",
		Specialty:   "Pediatrician",
		Image:       "https://randomuser.me/api/portraits/women/50.jpg",
		Description: "Twelve years caring for infants, children, and adolescents with an emphasis on preventive care.",
	},
	{
		Name:        "Dr. Sameer Joshi",
		Specialty:   "Neurologist",
		Image:       "https://randomuser.me/api/portraits/men/22.jpg",
		Description: "Treats brain and nerve disorders; 14 years of experience.",
	},
	{
		Name:        "Dr. Priya Nair",
		Specialty:   "Gynecologist",
		Image:       "https://randomuser.me/api/portraits/women/33.jpg",
		Description: "Ten years in women's health, prenatal care, and reproductive medicine.",
	},
	{
		Name:        "Dr. Arjun Mehta",
		Specialty:   "ENT Specialist",
		Image:       "https://randomuser.me/api/portraits/men/55.jpg",
		Description: "Ear, nose, and throat disorders treated with a holistic approach.",
	},
	{
		Name:        "Dr. Kavya Reddy",
		Specialty:   "Psychiatrist",
		Image:       "https://randomuser.me/api/portraits/women/55.jpg",
		Description: "Mental health care including anxiety, depression, and stress management.",
	},
	{
		Name:        "Dr. Vikram Singh",
		Specialty:   "General Surgeon",
		Image:       "https://randomuser.me/api/portraits/men/60.jpg",
		Description: "Experienced general surgeon performing complex surgeries with advanced techniques.",
	},
	{
		Name:        "Dr. Ananya Sharma",
		Specialty:   "Ophthalmologist",
		Image:       "https://randomuser.me/api/portraits/women/60.jpg",
		Description: "Vision care, eye surgeries, and preventive ophthalmology.",
	},
	{
		Name:        "Dr. Ritesh Kapoor",
		Specialty:   "Dentist",
		Image:       "https://randomuser.me/api/portraits/men/65.jpg",
		Description: "Dental care, cosmetic dentistry, and orthodontics; 12 years of experience.",
	},
	{
		Name:        "Dr. Sneha Iyer",
		Specialty:   "Nutritionist",
		Image:       "https://randomuser.me/api/portraits/women/66.jpg",
		Description: "Diet, nutrition, and personalized wellness planning.",
	},
}

// Catalog returns a copy of the built-in doctors in display order.
func Catalog() []Doctor {
	out := make([]Doctor, len(catalog))
	copy(out, catalog)
	return out
}

// Filter keeps doctors whose specialty equals specialty (any when it is empty
// or AllSpecialties) and whose name contains search, ignoring case.
func Filter(doctors []Doctor, search, specialty string) []Doctor {
	search = strings.ToLower(search)
	out := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if specialty != "" && specialty != AllSpecialties && d.Specialty != specialty {
			continue
		}
		if !strings.Contains(strings.ToLower(d.Name), search) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Specialties lists distinct catalog specialties in catalog order.
func Specialties() []string {
	seen := make(map[string]bool, len(catalog))
	out := make([]string, 0, len(catalog))
	for _, d := range catalog {
		if seen[d.Specialty] {
			continue
		}
		seen[d.Specialty] = true
		out = append(out, d.Specialty)
	}
	return out
}
