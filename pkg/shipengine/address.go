package shipengine

import "strings"

// placeholderPhone is sent when the merchant record carries no phone
// number. The upstream API requires the field; carriers ignore the value.
const placeholderPhone = "10000000000"

// mapAddress translates a generic address record into the upstream address
// shape. Pure function: identical input always yields identical output.
//
// Defaulting rules, in order: the residential indicator starts at "yes";
// a company flips it to "no" and stands in for a missing personal name;
// a fully anonymous record is addressed to "Resident"; a missing phone gets
// a fixed placeholder. Location fields pass through only when present.
func mapAddress(addr *Address) AddressFields {
	if addr == nil {
		addr = &Address{}
	}

	fields := AddressFields{
		AddressResidentialIndicator: "yes",
		Name:                        addr.Name,
	}

	if fields.Name == "" {
		fields.Name = "Resident"
	}

	if addr.Company != "" {
		fields.CompanyName = addr.Company
		fields.AddressResidentialIndicator = "no"

		if addr.Name == "" {
			fields.Name = addr.Company
		}
	}

	if phone := addr.Phone.First(); phone != "" {
		fields.Phone = phone
	} else {
		fields.Phone = placeholderPhone
	}

	if addr.Country != "" {
		fields.CountryCode = strings.ToUpper(addr.Country)
	}

	if addr.State != "" {
		fields.StateProvince = addr.State
	}

	if addr.Postcode != "" {
		fields.PostalCode = addr.Postcode
	}

	if addr.City != "" {
		fields.CityLocality = addr.City
	}

	if addr.Address1 != "" {
		fields.AddressLine1 = addr.Address1
	}

	if addr.Address2 != "" {
		fields.AddressLine2 = addr.Address2
	}

	return fields
}
