package models

import "fmt"

type Category string

// AllCategories is the filter sentinel; it is never stored on a poll.
const AllCategories Category = "All Categories"

const (
	CategoryPolitics      Category = "Politics"
	CategoryGaming        Category = "Gaming"
	CategoryMovies        Category = "Movies"
	CategoryTechnology    Category = "Technology"
	CategorySports        Category = "Sports"
	CategoryMusic         Category = "Music"
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryBusiness      Category = "Business"
	CategorySocialMedia   Category = "Social Media"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

var Categories = []Category{
	CategoryPolitics,
	CategoryGaming,
	CategoryMovies,
	CategoryTechnology,
	CategorySports,
	CategoryMusic,
	CategoryFood,
	CategoryTravel,
	CategoryHealth,
	CategoryEducation,
	CategoryBusiness,
	CategorySocialMedia,
	CategoryEntertainment,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts a concrete category or the AllCategories sentinel.
// An empty string is read as AllCategories.
func ParseCategory(s string) (Category, error) {
	if s == "" || Category(s) == AllCategories {
		return AllCategories, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
