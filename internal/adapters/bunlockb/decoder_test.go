package bunlockb_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockguard/internal/adapters/bunlockb"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const decoded = `# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.
# yarn lockfile v1
# bun ./bun.lockb --hash: 0123

"left-pad@^1.3.0":
  version "1.3.0"
  resolved "https://registry.npmjs.org/left-pad/-/left-pad-1.3.0.tgz"
  integrity sha512-AAAA
`

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	tmp := t.TempDir()

	runner.EXPECT().Run(gomock.Any(), "bun", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args ...string) ([]byte, error) {
			require.Len(t, args, 1)
			assert.Equal(t, "bun.lockb", filepath.Base(args[0]))
			data, err := os.ReadFile(args[0])
			require.NoError(t, err)
			assert.Equal(t, []byte("bun-lockb\x00"), data)
			return []byte(decoded), nil
		}).Times(1)

	d := bunlockb.NewDecoder(runner, tmp)

	text, err := d.Decode(context.Background(), []byte("bun-lockb\x00"))
	require.NoError(t, err)
	assert.Equal(t, decoded, text)

	again, err := d.Decode(context.Background(), []byte("bun-lockb\x00"))
	require.NoError(t, err)
	assert.Equal(t, decoded, again)

	leftovers, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDecoder_Failure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "bun", gomock.Any()).Return(nil, errors.New("executable not found"))

	_, err := bunlockb.NewDecoder(runner, t.TempDir()).Decode(context.Background(), []byte{1})
	require.ErrorContains(t, err, domain.ErrLockbDecodeFailed.Error())
	assert.ErrorContains(t, err, "executable not found")
}

func TestDecoder_Empty(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	text, err := bunlockb.NewDecoder(mocks.NewMockCommandRunner(ctrl), "").Decode(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
