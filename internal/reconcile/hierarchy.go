// Package reconcile groups a delivery's invoices under their covering
// waybills and surfaces coverage gaps. The builder is pure and re-run on
// every read; the same document list always yields the same grouping and
// ordering.
package reconcile

import (
	"sort"
	"strings"

	"github.com/nurpe/freightops-trips/internal/model"
)

// Group is one waybill together with the invoices it covers in this
// delivery. MissingReferencedKeys lists referenced access keys with no
// matching invoice present, meaning the waybill claims coverage of invoices
// absent from the delivery.
type Group struct {
	Waybill               model.Document   `json:"waybill"`
	DisplayNumber         string           `json:"displayNumber"`
	Invoices              []model.Document `json:"invoices"`
	MissingReferencedKeys []string         `json:"missingReferencedKeys"`
}

type Counts struct {
	Groups           int `json:"groups"`
	TotalInvoices    int `json:"totalInvoices"`
	LinkedInvoices   int `json:"linkedInvoices"`
	UnlinkedInvoices int `json:"unlinkedInvoices"`
}

type Hierarchy struct {
	Groups           []Group          `json:"groups"`
	UnlinkedInvoices []model.Document `json:"unlinkedInvoices"`
	Counts           Counts           `json:"counts"`
}

// BuildWaybillHierarchy maps a delivery's invoice set onto its waybills.
// Explicit covering-waybill numbers win over access-key references; invoices
// with neither end up unlinked. Malformed documents are filtered out before
// grouping.
func BuildWaybillHierarchy(documents []model.Document) Hierarchy {
	var waybills []model.Document
	var invoices []model.Document
	for _, doc := range documents {
		if !doc.WellFormed() {
			continue
		}
		switch doc.Type {
		case model.DocumentTypeWaybill:
			waybills = append(waybills, doc)
		case model.DocumentTypeInvoice:
			invoices = append(invoices, doc)
		}
	}

	groupByNumber := make(map[string]*Group, len(waybills))
	order := make([]string, 0, len(waybills))
	// keyToWaybill maps each referenced access key to the first waybill
	// claiming it, in input order.
	keyToWaybill := make(map[string]string)
	for _, wb := range waybills {
		if _, exists := groupByNumber[wb.Number]; exists {
			continue
		}
		groupByNumber[wb.Number] = &Group{
			Waybill:       wb,
			DisplayNumber: model.NormalizeNumber(wb.Number),
			Invoices:      []model.Document{},
		}
		order = append(order, wb.Number)
		for _, key := range wb.ReferencedKeys {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if _, taken := keyToWaybill[key]; !taken {
				keyToWaybill[key] = wb.Number
			}
		}
	}

	presentKeys := make(map[string]struct{}, len(invoices))
	var unlinked []model.Document
	for _, inv := range invoices {
		if inv.AccessKey != "" {
			presentKeys[inv.AccessKey] = struct{}{}
		}
		switch {
		case inv.CoveringWaybill != "" && groupByNumber[inv.CoveringWaybill] != nil:
			group := groupByNumber[inv.CoveringWaybill]
			group.Invoices = append(group.Invoices, inv)
		case inv.AccessKey != "" && keyToWaybill[inv.AccessKey] != "":
			group := groupByNumber[keyToWaybill[inv.AccessKey]]
			group.Invoices = append(group.Invoices, inv)
		default:
			unlinked = append(unlinked, inv)
		}
	}

	groups := make([]Group, 0, len(order))
	linked := 0
	for _, number := range order {
		group := groupByNumber[number]
		for _, key := range group.Waybill.ReferencedKeys {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if _, ok := presentKeys[key]; !ok {
				group.MissingReferencedKeys = append(group.MissingReferencedKeys, key)
			}
		}
		sortByNumber(group.Invoices)
		sort.Strings(group.MissingReferencedKeys)
		linked += len(group.Invoices)
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Waybill.Number < groups[j].Waybill.Number
	})
	sortByNumber(unlinked)
	if unlinked == nil {
		unlinked = []model.Document{}
	}

	return Hierarchy{
		Groups:           groups,
		UnlinkedInvoices: unlinked,
		Counts: Counts{
			Groups:           len(groups),
			TotalInvoices:    len(invoices),
			LinkedInvoices:   linked,
			UnlinkedInvoices: len(unlinked),
		},
	}
}

func sortByNumber(docs []model.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Number < docs[j].Number
	})
}
