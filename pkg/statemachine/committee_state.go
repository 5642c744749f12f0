// Copyright 2025 Verdict Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

type CommitteeStatus string

const (
	CommitteePending   CommitteeStatus = "pending"
	CommitteeActive    CommitteeStatus = "active"
	CommitteeCompleted CommitteeStatus = "completed"
	CommitteeCancelled CommitteeStatus = "cancelled"
)

// IsTerminal 判断是否为终止状态
func (cs CommitteeStatus) IsTerminal() bool {
	return cs == CommitteeCompleted || cs == CommitteeCancelled
}

// IsLive 判断委员会是否仍可收集反馈
func (cs CommitteeStatus) IsLive() bool {
	return cs == CommitteePending || cs == CommitteeActive
}

// NewCommitteeStateMachine 创建委员会状态机
// cancelled is reachable from any non-completed state; completed only from active.
func NewCommitteeStateMachine(current CommitteeStatus) *StateMachine[CommitteeStatus] {
	sm := NewWithState(current)

	sm.Allow(CommitteePending, CommitteeActive, CommitteeCancelled).
		Allow(CommitteeActive, CommitteeCompleted, CommitteeCancelled)

	return sm
}
