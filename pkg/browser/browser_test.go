package browser

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/extract"
	"marketpulse/pkg/logger"
)

func TestLaunchWithMissingExecutable(t *testing.T) {
	opts := Options{
		Headless: true,
		ExecPath: filepath.Join(t.TempDir(), "no-such-chrome"),
	}

	page, err := Launch(context.Background(), opts, logger.NewTestLogger())
	require.Error(t, err)
	assert.Nil(t, page)
	assert.True(t, errs.IsType(err, errs.ErrorTypeBrowser))
	assert.True(t, errs.AbortsHashtag(err))
}

func TestItemsScriptTargetsFeedItems(t *testing.T) {
	assert.True(t, strings.Contains(itemsScript, extract.FeedItem))
	assert.Contains(t, itemsScript, "outerHTML")
}
