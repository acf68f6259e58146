package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/marketpo/internal/domain"
)

func TestLoadAmazonCSV(t *testing.T) {
	csvData := strings.Join([]string{
		`SKU,Title,Units Ordered`,
		`amz-tea-p2,Green Tea 2-Pack,"1,024"`,
		` AMZ-SOAP ,Soap Bar,3`,
		`,No SKU Item,2`,
	}, "\n")

	result, err := LoadAmazonCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, domain.SalesRecord{SKU: "AMZ-TEA-P2", Qty: 1024, Platform: PlatformAmazon}, result.Records[0])
	assert.Equal(t, domain.SalesRecord{SKU: "AMZ-SOAP", Qty: 3, Platform: PlatformAmazon}, result.Records[1])
	// A blank SKU cell still yields a record under the sentinel value.
	assert.Equal(t, "UNKNOWN", result.Records[2].SKU)
}

func TestLoadAmazonCSVBadQuantityDegrades(t *testing.T) {
	csvData := "SKU,Units Ordered\nA-1,lots\nA-2,5\n"

	result, err := LoadAmazonCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, 0.0, result.Records[0].Qty)
	assert.Equal(t, 5.0, result.Records[1].Qty)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "amazon_sales", result.Warnings[0].Source)
	assert.Equal(t, "A-1", result.Warnings[0].SKU)
}

func TestLoadAmazonCSVMissingColumnIsFatal(t *testing.T) {
	_, err := LoadAmazonCSV(strings.NewReader("ASIN,Sessions\nB000,12\n"))
	require.Error(t, err)

	var fatal *domain.FatalInputError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, "amazon_sales", fatal.Source)
}

func TestLoadAmazonCSVAcceptsQtyAlias(t *testing.T) {
	result, err := LoadAmazonCSV(strings.NewReader("sku,qty\nA-1,7\n"))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 7.0, result.Records[0].Qty)
}
