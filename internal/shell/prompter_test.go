package shell

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrompterSelect(t *testing.T) {
	options := []Option{{Key: "1", Label: "Every day"}, {Key: "7", Label: "Once a week"}}

	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("9\nonce a week\n2\n"), &out)

	got, err := p.Select("How often?", options)
	require.NoError(t, err)
	assert.Equal(t, "7", got)
	assert.Contains(t, out.String(), `invalid choice "9"`)
	assert.Contains(t, out.String(), "  2) Once a week")

	got, err = p.Select("How often?", options)
	require.NoError(t, err)
	assert.Equal(t, "7", got)
}

func TestLinePrompterInputValidates(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("\n  read  \n"), &out)

	got, err := p.Input("Name?", func(v string) error {
		if v == "" {
			return errors.New("required")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "read", got)
	assert.Contains(t, out.String(), "required")
}

func TestLinePrompterConfirm(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("\nmaybe\nn\ny"), &bytes.Buffer{})

	got, err := p.Confirm("Continue?", true)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = p.Confirm("Continue?", true)
	require.NoError(t, err)
	assert.False(t, got)

	// 最后一行没有换行符也能读取
	got, err = p.Confirm("Continue?", false)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = p.Confirm("Continue?", false)
	assert.ErrorIs(t, err, ErrAborted)
}
