package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type row struct {
	ID       string `bson:"_id"`
	TenantID string `bson:"tenant_id"`
	Owner    string `bson:"owner,omitempty"`
	Count    int    `bson:"count"`
}

func TestMatches(t *testing.T) {
	r := row{ID: "1", TenantID: "t1", Owner: "u1", Count: 3}

	assert.True(t, Matches(r, bson.M{"tenant_id": "t1"}))
	assert.False(t, Matches(r, bson.M{"tenant_id": "t2"}))
	assert.True(t, Matches(r, bson.M{"owner": bson.M{"$in": []string{"u0", "u1"}}}))
	assert.False(t, Matches(r, bson.M{"owner": bson.M{"$in": []string{}}}))
	assert.True(t, Matches(r, bson.M{"$and": bson.A{bson.M{"_id": "1"}, bson.M{"count": 3}}}))
	assert.True(t, Matches(r, bson.M{"$or": bson.A{bson.M{"_id": "9"}, bson.M{"owner": "u1"}}}))
	assert.False(t, Matches(row{ID: "2"}, bson.M{"owner": "u1"}))
}

func TestApply(t *testing.T) {
	r := row{ID: "1", TenantID: "t1", Owner: "u1"}
	require.NoError(t, Apply(&r, bson.M{"owner": "u2", "count": 7}))

	assert.Equal(t, row{ID: "1", TenantID: "t1", Owner: "u2", Count: 7}, r)
}
