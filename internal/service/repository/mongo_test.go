package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func stageNames(pipeline []bson.D) []string {
	names := make([]string, len(pipeline))
	for i, stage := range pipeline {
		names[i] = stage[0].Key
	}
	return names
}

func TestSummaryPipeline_AllTime(t *testing.T) {
	pipeline := summaryPipeline(time.Time{})
	assert.Equal(t, []string{"$sort", "$group", "$sort"}, stageNames(pipeline))

	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, pipeline[0][0].Value,
		"records must be in creation order before $group so $last is the latest")

	group, ok := pipeline[1][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$userId", group["_id"])
	assert.Equal(t, bson.M{"$min": "$totalScore"}, group["bestScore"])
	assert.Equal(t, bson.M{"$last": "$totalScore"}, group["latestScore"])
	assert.Equal(t, bson.M{"$last": "$category"}, group["latestCategory"])
	assert.Equal(t, bson.M{"$last": "$createdAt"}, group["latestDate"])
	assert.Equal(t, bson.M{"$first": "$createdAt"}, group["firstDate"])
	assert.Equal(t, bson.M{"$sum": 1}, group["totalAttempts"])
	assert.Equal(t, bson.M{"$sum": "$totalScore"}, group["scoreSum"])

	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, pipeline[2][0].Value)
}

func TestSummaryPipeline_Since(t *testing.T) {
	since := time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC)
	pipeline := summaryPipeline(since)
	assert.Equal(t, []string{"$match", "$sort", "$group", "$sort"}, stageNames(pipeline))
	assert.Equal(t, bson.M{"createdAt": bson.M{"$gte": since}}, pipeline[0][0].Value)
}
