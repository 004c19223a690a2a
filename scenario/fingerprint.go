// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scenario

import (
	"encoding/hex"
	"errors"

	"github.com/zeebo/blake3"
)

// fingerprint hashes the fully constants-resolved scenario JSON, so two
// runs claiming identical inputs can be diffed byte-for-byte regardless of
// which constants file produced them.
func fingerprint(resolvedJSON []byte) (string, error) {
	h := blake3.New()
	h.Write(resolvedJSON)

	digest := h.Digest()
	buf := make([]byte, 32)
	n, err := digest.Read(buf)
	if err != nil {
		return "", err
	}
	if n != 32 {
		return "", errors.New("scenario: fingerprint failed -- couldn't read 32 bytes from digest")
	}

	return hex.EncodeToString(buf), nil
}
