package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Country, City and District are immutable reference data seeded by charmictl.
type Country struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type City struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	CountryID int64  `json:"countryId" db:"country_id"`
}

type District struct {
	ID           int64  `json:"id" db:"id"`
	DistrictName string `json:"districtName" db:"district_name"`
	CityID       int64  `json:"cityId" db:"city_id"`
}

// Triple is the (country, city, district) reference an address carries.
type Triple struct {
	CountryID  int64 `json:"countryId" form:"countryId"`
	CityID     int64 `json:"cityId" form:"cityId"`
	DistrictID int64 `json:"districtId" form:"districtId"`
}

func (t Triple) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.CountryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&t.CityID, validation.Required, validation.Min(int64(1))),
		validation.Field(&t.DistrictID, validation.Required, validation.Min(int64(1))),
	)
}

// Resolution is the raw result of looking a Triple up in one query.
// A nil part means that id does not exist.
type Resolution struct {
	Triple   Triple
	Country  *Country
	City     *City
	District *District
}

// Missing returns which parts of the triple were not found, in country, city, district order.
func (r *Resolution) Missing() []string {
	var missing []string
	if r.Country == nil {
		missing = append(missing, "country")
	}
	if r.City == nil {
		missing = append(missing, "city")
	}
	if r.District == nil {
		missing = append(missing, "district")
	}
	return missing
}

// Consistent reports whether the city lies in the country and the district in the city.
// Only meaningful when nothing is missing.
func (r *Resolution) Consistent() bool {
	return r.City.CountryID == r.Country.ID && r.District.CityID == r.City.ID
}

// LocationNames is the display form of a Triple.
type LocationNames struct {
	CountryID  int64  `json:"countryId"`
	Country    string `json:"country"`
	CityID     int64  `json:"cityId"`
	City       string `json:"city"`
	DistrictID int64  `json:"districtId"`
	District   string `json:"district"`
}

func (r *Resolution) Names() LocationNames {
	n := LocationNames{
		CountryID:  r.Triple.CountryID,
		CityID:     r.Triple.CityID,
		DistrictID: r.Triple.DistrictID,
	}
	if r.Country != nil {
		n.Country = r.Country.Name
	}
	if r.City != nil {
		n.City = r.City.Name
	}
	if r.District != nil {
		n.District = r.District.DistrictName
	}
	return n
}
