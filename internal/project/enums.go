package project

import "strings"

// Type classifies the kind of structure being detailed.
type Type string

const (
	TypeCommercial     Type = "commercial"
	TypeIndustrial     Type = "industrial"
	TypeResidential    Type = "residential"
	TypeInfrastructure Type = "infrastructure"
)

// Types lists every project type in display order.
var Types = []Type{TypeCommercial, TypeIndustrial, TypeResidential, TypeInfrastructure}

// Valid reports whether t is a known project type.
func (t Type) Valid() bool {
	switch t {
	case TypeCommercial, TypeIndustrial, TypeResidential, TypeInfrastructure:
		return true
	}
	return false
}

// ParseType maps free text to a Type. Anything unrecognised is commercial.
func ParseType(s string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return TypeCommercial
}

// Service is an optional add-on priced on top of the detailing package.
type Service string

const (
	ServiceConnectionDesign Service = "connectionDesign"
	ServiceClashReview      Service = "clashReview"
	ServiceBIMCoordination  Service = "bimCoordination"
	ServiceShopDrawingQC    Service = "shopDrawingQc"
)

// Services lists every optional service in display order.
var Services = []Service{ServiceConnectionDesign, ServiceClashReview, ServiceBIMCoordination, ServiceShopDrawingQC}

// Valid reports whether s is a known service.
func (s Service) Valid() bool {
	switch s {
	case ServiceConnectionDesign, ServiceClashReview, ServiceBIMCoordination, ServiceShopDrawingQC:
		return true
	}
	return false
}

// Label returns the human-readable name used in rendered quotes.
func (s Service) Label() string {
	switch s {
	case ServiceConnectionDesign:
		return "Connection design"
	case ServiceClashReview:
		return "Clash review"
	case ServiceBIMCoordination:
		return "BIM coordination"
	case ServiceShopDrawingQC:
		return "Shop drawing QA/QC"
	}
	return string(s)
}

// ParseService matches a service identifier case-insensitively.
func ParseService(s string) (Service, bool) {
	trimmed := strings.TrimSpace(s)
	for _, svc := range Services {
		if strings.EqualFold(string(svc), trimmed) {
			return svc, true
		}
	}
	return Service(trimmed), false
}
