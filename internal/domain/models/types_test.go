package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 9)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09"`), &parsed))
	assert.Equal(t, d.String(), parsed.String())

	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09T00:00:00.000Z"`), &parsed))
	assert.Equal(t, "2024-03-09", parsed.String())

	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09T23:30:00+08:00"`), &parsed))
	assert.Equal(t, "2024-03-09", parsed.String())

	for _, bad := range []string{`"2024-01-01zzz"`, `"2024-01-01 junk"`, `"2024-01-01T"`, `"2024-13-01"`, `"09/03/2024"`} {
		assert.Error(t, json.Unmarshal([]byte(bad), &parsed), bad)
	}
	assert.Error(t, json.Unmarshal([]byte(`20240309`), &parsed))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2023, time.December, 31, 23, 0, 0, 0, time.Local)))
	assert.Equal(t, "2023-12-31", d.String())

	require.NoError(t, d.Scan("2022-01-15"))
	assert.Equal(t, "2022-01-15", d.String())

	require.NoError(t, d.Scan([]byte("2021-06-01 00:00:00")))
	assert.Equal(t, "2021-06-01", d.String())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2020, time.February, 29).Value()
	require.NoError(t, err)
	assert.Equal(t, "2020-02-29", v)
}

func TestFlagJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		On  Flag `json:"on"`
		Off Flag `json:"off"`
	}{On: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":1,"off":0}`, string(data))

	for input, want := range map[string]Flag{"1": true, "true": true, "0": false, "false": false} {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(input), &f), input)
		assert.Equal(t, want, f, input)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &f))
	assert.Error(t, json.Unmarshal([]byte(`2`), &f))
}

func TestFlagScan(t *testing.T) {
	var f Flag
	require.NoError(t, f.Scan(int64(1)))
	assert.True(t, bool(f))
	require.NoError(t, f.Scan([]byte("0")))
	assert.False(t, bool(f))
	require.NoError(t, f.Scan(true))
	assert.True(t, bool(f))
	assert.Error(t, f.Scan(1.5))
}

func TestMoneyIsJSONNumber(t *testing.T) {
	fee := decimal.RequireFromString("12.50")
	data, err := json.Marshal(Property{PropertyID: 1, Name: "Oakwood", Address: "12 Elm St", ConservancyFee: &fee})
	require.NoError(t, err)
	assert.JSONEq(t, `{"property_id":1,"name":"Oakwood","address":"12 Elm St","description":null,"conservancy_fee":12.5}`, string(data))
}

func TestTenancyInputDefaults(t *testing.T) {
	var in TenancyInput
	require.NoError(t, json.Unmarshal([]byte(`{"apartment_id":1,"tenant_id":2,"start_date":"2024-01-01","rent_amount":1500,"deposit_amount":3000}`), &in))
	in.Normalize()
	require.NotNil(t, in.Active)
	assert.True(t, bool(*in.Active))
	assert.Equal(t, Flag(true), in.Columns()["active"])

	in = TenancyInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"active":0}`), &in))
	in.Normalize()
	assert.False(t, bool(*in.Active))
	assert.False(t, bool(in.Model().Active))
}

func TestInputNormalizeBlankOptionals(t *testing.T) {
	blank := "   "
	zero := 0
	in := ApartmentInput{ApartmentType: &blank, SwitchName: &blank, PortNumber: &zero}
	in.Normalize()

	assert.Nil(t, in.ApartmentType)
	assert.Nil(t, in.SwitchName)
	require.NotNil(t, in.PortNumber)

	cols := in.Columns()
	assert.Nil(t, cols["apartment_type"])
	assert.Equal(t, 0, cols["port_number"])
}
