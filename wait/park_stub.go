//go:build !linux || !(amd64 || arm64)

/*
 *
 * Copyright 2025 gnuradio-go authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Platforms without a raw futex syscall (anything but linux/amd64|arm64)
// degrade to a bounded sleep: parkWait always returns after one quantum so
// the caller's own loop re-checks its condition at roughly the same
// cadence as the Sleeping strategy. Correctness never depends on parkWake
// actually delivering a wake; it is purely an optimization hint here.
package wait

import "time"

const stubQuantum = DefaultSleepQuantum

func parkWait(addr *uint32, val uint32, timeoutNs int64) error {
	d := stubQuantum
	if timeoutNs > 0 && time.Duration(timeoutNs) < d {
		d = time.Duration(timeoutNs)
	}
	time.Sleep(d)
	return nil
}

func parkWake(addr *uint32) {}
