package addressbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

func TestShapeRowProtectedContact(t *testing.T) {
	row := map[string]string{
		"Name":            "Jane Doe",
		"First Name":      "Jane",
		"Last Name":       "Doe",
		"Labels":          "* myContacts ::: * starred",
		"Phone 1 - Value": "0101234567",
		"Phone 2 - Value": "00201234567",
	}

	name, rec, ok := shapeRow(normalize.Default(), row)
	require.True(t, ok)

	assert.Equal(t, "Jane Doe", name)
	assert.True(t, rec.Protected)
	assert.Equal(t, []string{"+20101234567", "+201234567"}, rec.Numbers)
	assert.True(t, rec.HasSource(contacts.SourcePrimary))
	assert.Equal(t, "jane doe", rec.CompareKey)
	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, row, rec.Snapshot)
}

func TestShapeRowMarkerGroupContact(t *testing.T) {
	row := map[string]string{
		"Name":            "Ahmed Ali",
		"Labels":          "🧪 Lab ::: * myContacts",
		"Phone 1 - Value": "0101234567",
	}

	name, rec, ok := shapeRow(normalize.Default(), row)
	require.True(t, ok)

	// Marker-group contacts get the marker appended and stay modifiable.
	assert.Equal(t, "Ahmed Ali Lab", name)
	assert.False(t, rec.Protected)
	assert.Contains(t, rec.Groups, "🧪 Lab ::: * myContacts")
}

func TestShapeRowNameFallbackFromParts(t *testing.T) {
	row := map[string]string{
		"First Name":  "Omar",
		"Middle Name": "K",
		"Last Name":   "Farouk",
	}

	name, rec, ok := shapeRow(normalize.Default(), row)
	require.True(t, ok)
	assert.Equal(t, "Omar K Farouk", name)
	// No Labels or Group Membership column defaults to "* myContacts",
	// which is not a marker group.
	assert.True(t, rec.Protected)
	assert.Contains(t, rec.Groups, "* myContacts")
}

func TestShapeRowGroupMembershipFallback(t *testing.T) {
	row := map[string]string{
		"Name":             "Mona",
		"Group Membership": "lab ::: * myContacts",
	}

	name, rec, ok := shapeRow(normalize.Default(), row)
	require.True(t, ok)
	assert.Equal(t, "Mona Lab", name)
	assert.False(t, rec.Protected)
	assert.Contains(t, rec.Groups, "🧪 Lab ::: * myContacts")
}

func TestShapeRowDropsNamelessRow(t *testing.T) {
	_, _, ok := shapeRow(normalize.Default(), map[string]string{
		"Phone 1 - Value": "0101234567",
	})
	assert.False(t, ok)
}

func TestCSVLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "google_contacts.csv")
	data := "Name,First Name,Last Name,Labels,Phone 1 - Value\n" +
		"Jane Doe,Jane,Doe,* myContacts,0101234567\n" +
		"Ahmed Lab,Ahmed,Lab,🧪 Lab ::: * myContacts,0109999999\n" +
		",,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	loader, err := NewCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "addressbook-csv", loader.Name())

	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	jane := records["Jane Doe"]
	require.NotNil(t, jane)
	assert.True(t, jane.Protected)
	assert.Equal(t, []string{"+20101234567"}, jane.Numbers)

	ahmed := records["Ahmed Lab"]
	require.NotNil(t, ahmed)
	assert.False(t, ahmed.Protected)
}

func TestCSVLoadMissingFile(t *testing.T) {
	loader, err := NewCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	assert.Error(t, err)
}

func TestNewCSVValidatesOptions(t *testing.T) {
	_, err := NewCSV("contacts.csv", WithNormalizer(nil))
	assert.Error(t, err)
}
