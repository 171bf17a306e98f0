package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{"status": "approved"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", expr)
	assert.Equal(t, map[string]string{"#f0": "status"}, names)
	_, ok := values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"price":    450000,
		"status":   "pending",
		"verified": false,
	}
	// Call twice to verify determinism.
	expr1, names1, _, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	expr2, _, _, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, expr1, expr2)

	// Keys must be sorted: price < status < verified
	assert.Equal(t, "price", names1["#f0"])
	assert.Equal(t, "status", names1["#f1"])
	assert.Equal(t, "verified", names1["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", expr1)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	_, _, values, err := buildUpdateExpr(map[string]interface{}{"featured": true})
	require.NoError(t, err)
	av, ok := values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, _, _, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestLastKeyCursor_RoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"car_id":     &types.AttributeValueMemberS{Value: "car1"},
		"created_at": &types.AttributeValueMemberN{Value: "1700000000"},
	}
	cursor, err := encodeLastKey(key)
	require.NoError(t, err)
	require.NotEmpty(t, cursor)

	decoded, err := decodeLastKey(cursor)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestLastKeyCursor_EmptyKey(t *testing.T) {
	cursor, err := encodeLastKey(nil)
	require.NoError(t, err)
	assert.Empty(t, cursor)

	decoded, err := decodeLastKey("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeLastKey_Garbage(t *testing.T) {
	_, err := decodeLastKey("not base64 at all!!!")
	assert.Error(t, err)
}

func TestDecodeLastKey_UnknownAttributePrefix(t *testing.T) {
	// {"k":"B:binary"} base64url encoded
	cursor := "eyJrIjoiQjpiaW5hcnkifQ"
	_, err := decodeLastKey(cursor)
	assert.Error(t, err)
}
