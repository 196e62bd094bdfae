package feeds

import (
	"encoding/xml"
	"fmt"

	"propfeed/models"
)

// ZillowXML renders the ILS property feed consumed by Zillow style partners.
var ZillowXML = Formatter{
	Name:        "zillow-xml",
	ContentType: "application/xml",
	Render:      renderZillowXML,
}

// The maximum number of property level photo nodes. The unit level gallery
// still carries every image.
const propertyPhotoLimit = 3

// Document types mirroring the ILS physical property schema. Escaping of the
// reserved XML characters is handled by the encoding/xml marshaller.

type physicalProperty struct {
	XMLName    xml.Name        `xml:"PhysicalProperty"`
	Management []xmlManagement `xml:"Management"`
	Properties []xmlProperty   `xml:"Property"`
}

type xmlManagement struct {
	IDValue string `xml:"IDValue,attr"`
	Name    string `xml:"Name"`
	Email   string `xml:"Email"`
	Phone   string `xml:"Phone"`
}

type xmlProperty struct {
	Identification    []xmlIdentification  `xml:"Identification"`
	MarketingName     string               `xml:"MarketingName"`
	Address           xmlAddress           `xml:"Address"`
	ContactInfo       xmlContact           `xml:"ContactInfo"`
	ILSIdentification xmlILSIdentification `xml:"ILS_Identification"`
	Information       xmlInformation       `xml:"Information"`
	Parking           xmlParking           `xml:"Parking"`
	Amenities         []xmlAmenity         `xml:"Amenity"`
	Policy            xmlPolicy            `xml:"Policy"`
	Floorplan         xmlFloorplan         `xml:"Floorplan"`
	ILSUnit           xmlILSUnit           `xml:"ILS_Unit"`
	Files             []xmlFile            `xml:"File"`
}

type xmlIdentification struct {
	IDType  string `xml:"IDType,attr"`
	IDValue string `xml:"IDValue,attr"`
}

type xmlAddress struct {
	AddressLine1 string `xml:"AddressLine1"`
	AddressLine2 string `xml:"AddressLine2,omitempty"`
	City         string `xml:"City"`
	State        string `xml:"State"`
	PostalCode   string `xml:"PostalCode"`
}

type xmlContact struct {
	CompanyName string `xml:"CompanyName"`
	Email       string `xml:"Email"`
	Phone       string `xml:"Phone"`
}

type xmlILSIdentification struct {
	Type      string   `xml:"ILS_IdentificationType,attr"`
	Latitude  *float64 `xml:"Latitude,omitempty"`
	Longitude *float64 `xml:"Longitude,omitempty"`
}

type xmlInformation struct {
	LongDescription xmlCdata `xml:"LongDescription"`
}

// CDATA wrapped so partner side parsers tolerate embedded markup in listing
// descriptions.
type xmlCdata struct {
	Text string `xml:",cdata"`
}

type xmlParking struct {
	ParkingType string `xml:"ParkingType,attr"`
}

type xmlAmenity struct {
	AmenityType string `xml:"AmenityType,attr"`
	Description string `xml:"Description"`
}

type xmlPolicy struct {
	Pets []xmlPet `xml:"Pet"`
}

type xmlPet struct {
	PetType string `xml:"PetType,attr"`
	Allowed bool   `xml:"Allowed,attr"`
}

type xmlFloorplan struct {
	Name       string        `xml:"Name"`
	Rooms      []xmlRoom     `xml:"Room"`
	SquareFeet xmlIntRange   `xml:"SquareFeet"`
	MarketRent xmlFloatRange `xml:"MarketRent"`
	Deposit    xmlDeposit    `xml:"Deposit"`
}

type xmlRoom struct {
	RoomType string  `xml:"RoomType,attr"`
	Count    float64 `xml:"Count"`
}

type xmlIntRange struct {
	Min int `xml:"Min,attr"`
	Max int `xml:"Max,attr"`
}

type xmlFloatRange struct {
	Min float64 `xml:"Min,attr"`
	Max float64 `xml:"Max,attr"`
}

type xmlDeposit struct {
	DepositType string    `xml:"DepositType,attr"`
	Amount      xmlAmount `xml:"Amount"`
}

type xmlAmount struct {
	ValueRange xmlExactRange `xml:"ValueRange"`
}

type xmlExactRange struct {
	Exact float64 `xml:"Exact,attr"`
}

type xmlILSUnit struct {
	Units        xmlUnits        `xml:"Units"`
	Availability xmlAvailability `xml:"Availability"`
	Files        []xmlFile       `xml:"File"`
}

type xmlUnits struct {
	Unit []xmlUnit `xml:"Unit"`
}

type xmlUnit struct {
	MarketingName       string  `xml:"MarketingName"`
	UnitBedrooms        int     `xml:"UnitBedrooms"`
	UnitBathrooms       float64 `xml:"UnitBathrooms"`
	MinSquareFeet       int     `xml:"MinSquareFeet"`
	MaxSquareFeet       int     `xml:"MaxSquareFeet"`
	UnitRent            float64 `xml:"UnitRent"`
	UnitEconomicStatus  string  `xml:"UnitEconomicStatus"`
	UnitOccupancyStatus string  `xml:"UnitOccupancyStatus"`
}

type xmlAvailability struct {
	VacancyClass string `xml:"VacancyClass"`
	AvailableURL string `xml:"AvailableURL,omitempty"`
}

type xmlFile struct {
	Active   bool   `xml:"Active,attr"`
	FileType string `xml:"FileType"`
	Src      string `xml:"Src"`
	Rank     int    `xml:"Rank"`
}

func renderZillowXML(listings []models.Listing, req Request) (string, error) {
	doc := physicalProperty{
		Management: managementCompanies(listings, req),
	}

	for i := range listings {
		doc.Properties = append(doc.Properties, buildProperty(&listings[i], req))
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal error: %w", err)
	}

	return xml.Header + string(out), nil
}

// managementCompanies synthesizes one Management node per distinct company
// id, in first-seen order, backfilled from the first listing's contact info.
func managementCompanies(listings []models.Listing, req Request) []xmlManagement {
	seen := make(map[string]bool, len(listings))
	var companies []xmlManagement

	for i := range listings {
		l := &listings[i]
		companyID := l.Company()
		if seen[companyID] {
			continue
		}
		seen[companyID] = true

		companies = append(companies, xmlManagement{
			IDValue: companyID,
			Name:    contactCompany(l),
			Email:   contactEmail(l, req),
			Phone:   contactPhone(l),
		})
	}

	return companies
}

func buildProperty(l *models.Listing, req Request) xmlProperty {
	price := l.Price()

	return xmlProperty{
		Identification: []xmlIdentification{
			{IDType: "Management ID", IDValue: l.Company()},
			{IDType: "Property ID", IDValue: l.ID},
		},
		MarketingName: l.Title,
		Address: xmlAddress{
			AddressLine1: l.Address,
			AddressLine2: l.Address2,
			City:         l.City,
			State:        l.State,
			PostalCode:   l.ZipCode,
		},
		ContactInfo: xmlContact{
			CompanyName: contactCompany(l),
			Email:       contactEmail(l, req),
			Phone:       contactPhone(l),
		},
		ILSIdentification: xmlILSIdentification{
			Type:      ILSPropertyType(l.PropertyType),
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		},
		Information: xmlInformation{
			LongDescription: xmlCdata{Text: l.Description},
		},
		Parking:   xmlParking{ParkingType: "Other"},
		Amenities: buildAmenities(l),
		Policy:    buildPetPolicy(l),
		Floorplan: buildFloorplan(l, price),
		ILSUnit:   buildUnit(l, price),
		Files:     buildFiles(l.Images, propertyPhotoLimit),
	}
}

func buildAmenities(l *models.Listing) []xmlAmenity {
	var amenities []xmlAmenity
	for _, amenity := range l.Amenities {
		amenities = append(amenities, xmlAmenity{
			AmenityType: AmenityCategory(amenity),
			Description: amenity,
		})
	}
	return amenities
}

// Both pet flags are driven by the same policy boolean; the upstream model
// does not distinguish species.
func buildPetPolicy(l *models.Listing) xmlPolicy {
	allowed := l.PetsAllowed()
	return xmlPolicy{
		Pets: []xmlPet{
			{PetType: "Dog", Allowed: allowed},
			{PetType: "Cat", Allowed: allowed},
		},
	}
}

func buildFloorplan(l *models.Listing, price float64) xmlFloorplan {
	return xmlFloorplan{
		Name: l.Title,
		Rooms: []xmlRoom{
			{RoomType: "Bedroom", Count: float64(l.Bedrooms)},
			{RoomType: "Bathroom", Count: l.Bathrooms},
		},
		SquareFeet: xmlIntRange{Min: l.SquareFootage, Max: l.SquareFootage},
		MarketRent: xmlFloatRange{Min: price, Max: price},
		Deposit: xmlDeposit{
			DepositType: "Security Deposit",
			Amount: xmlAmount{
				ValueRange: xmlExactRange{Exact: price},
			},
		},
	}
}

func buildUnit(l *models.Listing, price float64) xmlILSUnit {
	return xmlILSUnit{
		Units: xmlUnits{
			Unit: []xmlUnit{
				{
					MarketingName:       l.Title,
					UnitBedrooms:        l.Bedrooms,
					UnitBathrooms:       l.Bathrooms,
					MinSquareFeet:       l.SquareFootage,
					MaxSquareFeet:       l.SquareFootage,
					UnitRent:            price,
					UnitEconomicStatus:  "residential",
					UnitOccupancyStatus: occupancyStatus(l.Status),
				},
			},
		},
		Availability: xmlAvailability{
			VacancyClass: vacancyClass(l.Status),
			AvailableURL: l.AvailabilityURL,
		},
		Files: buildFiles(l.Images, len(l.Images)),
	}
}

func occupancyStatus(status string) string {
	if status == models.StatusActive {
		return "Vacant"
	}
	return "Occupied"
}

func vacancyClass(status string) string {
	if status == models.StatusActive {
		return "Unoccupied"
	}
	return "Occupied"
}

func buildFiles(images []string, limit int) []xmlFile {
	var files []xmlFile
	for i, src := range images {
		if i >= limit {
			break
		}
		files = append(files, xmlFile{
			Active:   true,
			FileType: "Photo",
			Src:      src,
			Rank:     i + 1,
		})
	}
	return files
}
