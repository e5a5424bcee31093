package addressbook

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/logging"
)

// connectionsPageSize is the People API maximum.
const connectionsPageSize = 1000

// personFields selects everything the export vocabulary can carry, so the
// snapshot of an API contact is as rich as a CSV export row.
const personFields = "names,phoneNumbers,memberships,emailAddresses,organizations,addresses,biographies,birthdays,urls"

// systemGroupLabels maps the API's system group display names to the labels
// used in CSV exports.
var systemGroupLabels = map[string]string{
	"My Contacts": "* myContacts",
	"Family":      "* family",
	"Starred":     "* starred",
}

// PeopleAPI loads primary contacts from the live People API.
type PeopleAPI struct {
	cfg  *config
	opts []option.ClientOption
}

// NewPeopleAPI creates an API loader. clientOpts must carry the caller's
// authenticated token source.
func NewPeopleAPI(clientOpts []option.ClientOption, opts ...Option) (*PeopleAPI, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &PeopleAPI{cfg: cfg, opts: clientOpts}, nil
}

// Name implements sources.Source.
func (p *PeopleAPI) Name() string {
	return "addressbook-api"
}

// Load implements sources.Source.
func (p *PeopleAPI) Load(ctx context.Context) (map[string]*contacts.Record, error) {
	logger := logging.FromContext(ctx)
	logger.Info().Msg("Loading primary contacts from People API")

	svc, err := people.NewService(ctx, p.opts...)
	if err != nil {
		return nil, errors.NewSourceError("addressbook", "people-api", err)
	}

	groupNames, err := p.fetchGroupNames(svc)
	if err != nil {
		// Group names only affect labels; the contacts themselves still
		// load.
		logger.Warn().Err(err).Msg("Could not fetch contact group names")
		groupNames = map[string]string{}
	}

	connections, err := p.fetchConnections(ctx, svc, logger)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*contacts.Record, len(connections))
	for _, person := range connections {
		row, ok := personRow(person, groupNames)
		if !ok {
			continue
		}
		name, rec, ok := shapeRow(p.cfg.normalizer, row)
		if !ok {
			continue
		}
		records[name] = rec
	}

	logger.Info().Int("records", len(records)).Msg("Loaded primary contacts")
	return records, nil
}

func (p *PeopleAPI) fetchGroupNames(svc *people.Service) (map[string]string, error) {
	res, err := svc.ContactGroups.List().Do()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(res.ContactGroups))
	for _, group := range res.ContactGroups {
		if group.ResourceName != "" {
			names[group.ResourceName] = group.FormattedName
		}
	}
	return names, nil
}

func (p *PeopleAPI) fetchConnections(ctx context.Context, svc *people.Service, logger *zerolog.Logger) ([]*people.Person, error) {
	var connections []*people.Person
	pageToken := ""
	for {
		res, err := svc.People.Connections.List("people/me").
			PageSize(connectionsPageSize).
			PersonFields(personFields).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, errors.NewSourceError("addressbook", "people-api", err)
		}
		connections = append(connections, res.Connections...)
		logger.Info().Int("connections", len(connections)).Msg("Fetched connections page")
		if res.NextPageToken == "" {
			return connections, nil
		}
		pageToken = res.NextPageToken
	}
}

// personRow flattens an API person into the CSV export column vocabulary.
func personRow(person *people.Person, groupNames map[string]string) (map[string]string, bool) {
	if len(person.Names) == 0 {
		return nil, false
	}

	row := map[string]string{}
	primary := person.Names[0]
	row["First Name"] = primary.GivenName
	row["Middle Name"] = primary.MiddleName
	row["Last Name"] = primary.FamilyName
	row["Name"] = primary.DisplayName

	for i, phone := range person.PhoneNumbers {
		if i >= 5 {
			break
		}
		row[fmt.Sprintf("Phone %d - Value", i+1)] = phone.Value
		phoneType := phone.Type
		if phoneType == "" {
			phoneType = "Mobile"
		}
		row[fmt.Sprintf("Phone %d - Type", i+1)] = phoneType
	}

	row["Labels"] = membershipLabels(person.Memberships, groupNames)

	for i, email := range person.EmailAddresses {
		if i >= 4 {
			break
		}
		row[fmt.Sprintf("E-mail %d - Value", i+1)] = email.Value
		emailType := email.Type
		if emailType == "" {
			emailType = "Other"
		}
		row[fmt.Sprintf("E-mail %d - Type", i+1)] = emailType
	}

	if len(person.Organizations) > 0 {
		row["Organization 1 - Name"] = person.Organizations[0].Name
		row["Organization 1 - Title"] = person.Organizations[0].Title
	}
	if len(person.Addresses) > 0 {
		row["Address 1 - Formatted"] = person.Addresses[0].FormattedValue
		addrType := person.Addresses[0].Type
		if addrType == "" {
			addrType = "Home"
		}
		row["Address 1 - Type"] = addrType
	}
	if len(person.Biographies) > 0 {
		row["Notes"] = person.Biographies[0].Value
	}
	if len(person.Birthdays) > 0 && person.Birthdays[0].Date != nil {
		if date := person.Birthdays[0].Date; date.Year != 0 {
			month, day := date.Month, date.Day
			if month == 0 {
				month = 1
			}
			if day == 0 {
				day = 1
			}
			row["Birthday"] = fmt.Sprintf("%04d-%02d-%02d", date.Year, month, day)
		}
	}
	for i, site := range person.Urls {
		if i >= 4 {
			break
		}
		row[fmt.Sprintf("Website %d - Value", i+1)] = site.Value
		siteType := site.Type
		if siteType == "" {
			siteType = "Home Page"
		}
		row[fmt.Sprintf("Website %d - Type", i+1)] = siteType
	}

	return row, true
}

// membershipLabels renders group memberships the way CSV exports do: other
// groups sorted first, then "* myContacts", then "* starred".
func membershipLabels(memberships []*people.Membership, groupNames map[string]string) string {
	var labels []string
	for _, m := range memberships {
		if m.ContactGroupMembership == nil {
			continue
		}
		name, ok := groupNames[m.ContactGroupMembership.ContactGroupResourceName]
		if !ok {
			continue
		}
		if mapped, ok := systemGroupLabels[name]; ok {
			name = mapped
		}
		if name != "" {
			labels = append(labels, name)
		}
	}

	hasMyContacts := false
	hasStarred := false
	var others []string
	for _, label := range labels {
		switch label {
		case "* myContacts":
			hasMyContacts = true
		case "* starred":
			hasStarred = true
		default:
			others = append(others, label)
		}
	}
	sort.Strings(others)

	parts := others
	if hasMyContacts {
		parts = append(parts, "* myContacts")
	}
	if hasStarred {
		parts = append(parts, "* starred")
	}
	if len(parts) == 0 {
		return "* myContacts"
	}
	return strings.Join(parts, " ::: ")
}
