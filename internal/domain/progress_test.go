package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyBatch(t *testing.T) {
	p := IndexProgress{Stage: StageUploading, Total: 7}

	p = ApplyBatch(p, 3)
	assert.Equal(t, 3, p.Done)

	p = ApplyBatch(p, 3)
	assert.Equal(t, 6, p.Done)

	p = ApplyBatch(p, 1)
	assert.Equal(t, 7, p.Done)
	assert.Equal(t, p.Total, p.Done)
}

func TestApplyBatchNeverExceedsTotal(t *testing.T) {
	p := IndexProgress{Stage: StageUploading, Total: 5}
	p = ApplyBatch(p, 10)
	assert.Equal(t, 5, p.Done)
}

func TestApplyBatchIgnoresNegative(t *testing.T) {
	p := IndexProgress{Stage: StageUploading, Done: 2, Total: 5}
	p = ApplyBatch(p, -3)
	assert.Equal(t, 2, p.Done)
}

func TestApplyBatchZeroTotal(t *testing.T) {
	p := IndexProgress{Stage: StageUploading}
	p = ApplyBatch(p, 3)
	assert.Equal(t, 0, p.Done)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "Idle", StageIdle.String())
	assert.Equal(t, "Clearing", StageClearing.String())
	assert.Equal(t, "Uploading", StageUploading.String())
	assert.Equal(t, "Processing", StageProcessing.String())
	assert.Equal(t, "Ready", StageReady.String())
	assert.Equal(t, "Unknown", IndexStage(42).String())
}

func TestUploadResultOK(t *testing.T) {
	assert.True(t, UploadResult{AssetID: "a", PhotoID: "p1"}.OK())
	assert.False(t, UploadResult{AssetID: "a", Err: errors.New("boom")}.OK())
	assert.False(t, UploadResult{AssetID: "a"}.OK())
}
