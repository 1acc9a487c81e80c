package templates

import "github.com/gabmartin/plantlibrary/internal/model"

// FlashMessage is a one-time notification surfaced on the next rendered page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData carries the fields every page needs for the base layout
type PageData struct {
	Title string
	User  *model.User
	Flash *FlashMessage
}

// Auth pages

type SigninData struct {
	PageData
	Next string
}

type SignupData struct {
	PageData
}

// Catalog home

type CatalogHomeData struct {
	PageData
	Plants             int
	PlantInstances     int
	AvailableInstances int
	Greenhouses        int
	PlantTypes         int
}

// Greenhouse pages

type GreenhouseListData struct {
	PageData
	Greenhouses []*model.Greenhouse
}

type GreenhouseDetailData struct {
	PageData
	Greenhouse *model.Greenhouse
	Plants     []*model.Plant
}

type GreenhouseFormData struct {
	PageData
	Action   string // form POST target
	Name     string
	Location string
	Errors   []string
}

type GreenhouseDeleteData struct {
	PageData
	Greenhouse *model.Greenhouse
	Plants     []*model.Plant // dependents blocking the delete
}

// Plant type pages

type PlantTypeListData struct {
	PageData
	Types []*model.PlantType
}

type PlantTypeDetailData struct {
	PageData
	Type   *model.PlantType
	Plants []*model.Plant
}

type PlantTypeFormData struct {
	PageData
	Action string
	Name   string
	Errors []string
}

type PlantTypeDeleteData struct {
	PageData
	Type   *model.PlantType
	Plants []*model.Plant
}

// Plant pages

type PlantRow struct {
	Plant      *model.Plant
	Greenhouse *model.Greenhouse
}

type PlantListData struct {
	PageData
	Plants []PlantRow
}

type PlantDetailData struct {
	PageData
	Plant      *model.Plant
	Greenhouse *model.Greenhouse
	Types      []*model.PlantType
	Instances  []*model.PlantInstance
}

type PlantFormData struct {
	PageData
	Action        string
	Name          string
	Price         string
	GreenhouseID  string
	SelectedTypes map[string]bool
	Greenhouses   []*model.Greenhouse
	Types         []*model.PlantType
	Errors        []string
}

type PlantDeleteData struct {
	PageData
	Plant     *model.Plant
	Instances []*model.PlantInstance
}

// Plant instance pages

type InstanceRow struct {
	Instance *model.PlantInstance
	Plant    *model.Plant
}

type InstanceListData struct {
	PageData
	Instances []InstanceRow
}

type InstanceDetailData struct {
	PageData
	Instance *model.PlantInstance
	Plant    *model.Plant
}

type InstanceFormData struct {
	PageData
	Action   string
	PlantID  string
	Imprint  string
	Status   string
	Plants   []*model.Plant
	Statuses []model.InstanceStatus
	Errors   []string
}

type InstanceDeleteData struct {
	PageData
	Instance *model.PlantInstance
	Plant    *model.Plant
}

// Error pages

type ErrorData struct {
	PageData
}
